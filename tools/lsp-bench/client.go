package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LSPClient is a connection to a language server over stdio
type LSPClient struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	reader    *bufio.Reader
	responses map[int]chan jsonrpcResponse
	mu        sync.Mutex
	writeMu   sync.Mutex
	nextID    int
	cancel    context.CancelFunc
}

type jsonrpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int            `json:"id"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *jsonrpcError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

type jsonrpcNotification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

var errNoContentLength = errors.New("missing Content-Length header")

// readHeader reads one header block and returns its Content-Length. Header
// names are case-insensitive and lines may end in CRLF or LF.
func readHeader(r *bufio.Reader) (int, error) {
	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			length = n
		}
	}
	if length < 0 {
		return 0, errNoContentLength
	}
	return length, nil
}

// NewLSPClient starts serverCmd and connects to its stdio
func NewLSPClient(serverCmd string) (*LSPClient, error) {
	parts := strings.Fields(serverCmd)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty server command")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) //nolint:gosec // G204: the command is the benchmark's input

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	client := &LSPClient{
		cmd:       cmd,
		stdin:     stdin,
		reader:    bufio.NewReader(stdout),
		responses: make(map[int]chan jsonrpcResponse),
		cancel:    cancel,
	}
	go client.readResponses()
	return client, nil
}

func (c *LSPClient) readResponses() {
	for {
		length, err := readHeader(c.reader)
		if errors.Is(err, errNoContentLength) {
			continue
		}
		if err != nil {
			return
		}

		content := make([]byte, length)
		if _, err := io.ReadFull(c.reader, content); err != nil {
			return
		}

		var resp jsonrpcResponse
		if err := json.Unmarshal(content, &resp); err != nil || resp.ID == nil {
			continue // notification
		}

		// Server requests, e.g. client/registerCapability, get an empty success
		if resp.Method != "" {
			go func(id int) {
				_ = c.write(map[string]any{"jsonrpc": "2.0", "id": id, "result": nil})
			}(*resp.ID)
			continue
		}

		c.mu.Lock()
		if ch, ok := c.responses[*resp.ID]; ok {
			ch <- resp
			delete(c.responses, *resp.ID)
		}
		c.mu.Unlock()
	}
}

func (c *LSPClient) write(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err = fmt.Fprintf(c.stdin, "Content-Length: %d\r\n\r\n%s", len(data), data)
	return err
}

// call sends a request and waits for its result. IDs start at 1.
func (c *LSPClient) call(method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	respChan := make(chan jsonrpcResponse, 1)
	c.responses[id] = respChan
	c.mu.Unlock()

	if err := c.write(jsonrpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		return nil, err
	}

	select {
	case resp := <-respChan:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-time.After(5 * time.Second):
		c.mu.Lock()
		delete(c.responses, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("timeout waiting for %s", method)
	}
}

func (c *LSPClient) notify(method string, params any) error {
	return c.write(jsonrpcNotification{JSONRPC: "2.0", Method: method, Params: params})
}

// Initialize sends initialize and initialized, declaring pull diagnostics
func (c *LSPClient) Initialize(rootURI string) error {
	params := map[string]any{
		"processId": nil,
		"rootUri":   rootURI,
		"capabilities": map[string]any{
			"textDocument": map[string]any{
				"hover": map[string]any{
					"contentFormat": []string{"markdown", "plaintext"},
				},
				"diagnostic": map[string]any{},
			},
		},
	}
	if _, err := c.call("initialize", params); err != nil {
		return err
	}
	return c.notify("initialized", map[string]any{})
}

// DidOpen sends a textDocument/didOpen notification
func (c *LSPClient) DidOpen(uri, languageID, text string) error {
	return c.notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        uri,
			"languageId": languageID,
			"version":    1,
			"text":       text,
		},
	})
}

// Hover sends a textDocument/hover request
func (c *LSPClient) Hover(uri string, line, character int) error {
	_, err := c.call("textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": character},
	})
	return err
}

// Diagnostic sends a textDocument/diagnostic request
func (c *LSPClient) Diagnostic(uri string) error {
	_, err := c.call("textDocument/diagnostic", map[string]any{
		"textDocument": map[string]any{"uri": uri},
	})
	return err
}

// Catalog sends a responsiveRanges/catalog request
func (c *LSPClient) Catalog() error {
	_, err := c.call("responsiveRanges/catalog", map[string]any{})
	return err
}

// Resolve sends a responsiveRanges/resolve request
func (c *LSPClient) Resolve(primaryStyle string, width, height int) error {
	_, err := c.call("responsiveRanges/resolve", map[string]any{
		"primaryStyle": primaryStyle,
		"width":        width,
		"height":       height,
	})
	return err
}

// Close shuts down the server
func (c *LSPClient) Close() error {
	_, _ = c.call("shutdown", nil)
	_ = c.notify("exit", nil)
	_ = c.stdin.Close()
	err := c.cmd.Wait()
	c.cancel()
	return err
}

// GetProcessMemory returns the server's resident set size. Only Linux
// exposes it; elsewhere it returns an error.
func (c *LSPClient) GetProcessMemory() (uint64, error) {
	if c.cmd.Process == nil {
		return 0, fmt.Errorf("process not started")
	}
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/status", c.cmd.Process.Pid))
	if err != nil {
		return 0, err
	}
	return parseVmRSS(data)
}

func parseVmRSS(status []byte) (uint64, error) {
	for _, line := range bytes.Split(status, []byte("\n")) {
		rest, ok := bytes.CutPrefix(line, []byte("VmRSS:"))
		if !ok {
			continue
		}
		fields := strings.Fields(string(rest))
		if len(fields) != 2 || fields[1] != "kB" {
			break
		}
		kb, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return 0, err
		}
		return kb * 1024, nil
	}
	return 0, fmt.Errorf("could not parse memory usage")
}
