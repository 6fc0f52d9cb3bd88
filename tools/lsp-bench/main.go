// Command lsp-bench measures request latency of the responsive ranges
// language server over stdio
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report is written to the -output file
type Report struct {
	Timestamp  time.Time         `json:"timestamp"`
	Server     string            `json:"server"`
	Workspace  string            `json:"workspace"`
	Iterations int               `json:"iterations"`
	Operations []OperationResult `json:"operations"`
	Memory     MemoryStats       `json:"memory_usage"`
}

// OperationResult holds latency statistics for one request kind
type OperationResult struct {
	Name       string        `json:"name"`
	Iterations int           `json:"iterations"`
	AvgLatency time.Duration `json:"avg_latency_ns"`
	MinLatency time.Duration `json:"min_latency_ns"`
	MaxLatency time.Duration `json:"max_latency_ns"`
	P50Latency time.Duration `json:"p50_latency_ns"`
	P95Latency time.Duration `json:"p95_latency_ns"`
	P99Latency time.Duration `json:"p99_latency_ns"`
}

// MemoryStats is the server's resident set size, where /proc provides it
type MemoryStats struct {
	Idle      uint64 `json:"idle_bytes"`
	UnderLoad uint64 `json:"under_load_bytes"`
}

type options struct {
	server     string
	workspace  string
	iterations int
	output     string
}

func main() {
	var opts options
	flag.StringVar(&opts.server, "server", "", "server command to benchmark, e.g. responsive-ranges-language-server")
	flag.StringVar(&opts.workspace, "workspace", "./test/fixtures/workspace", "workspace whose stylesheets make up the catalog")
	flag.IntVar(&opts.iterations, "iterations", 100, "requests per operation")
	flag.StringVar(&opts.output, "output", "benchmark-results.json", "where to write the JSON report")
	flag.Parse()

	if opts.server == "" || opts.iterations < 1 {
		fmt.Fprintln(os.Stderr, "lsp-bench: -server is required and -iterations must be positive")
		flag.Usage()
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "lsp-bench: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	root, err := filepath.Abs(opts.workspace)
	if err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}
	fmt.Printf("server=%s workspace=%s iterations=%d\n\n", opts.server, root, opts.iterations)

	client, err := NewLSPClient(opts.server)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	defer func() { _ = client.Close() }()

	report := Report{
		Timestamp:  time.Now(),
		Server:     opts.server,
		Workspace:  root,
		Iterations: opts.iterations,
	}
	add := func(op OperationResult) {
		report.Operations = append(report.Operations, op)
		fmt.Printf("%-12s avg=%-10v p95=%-10v p99=%-10v (%d runs)\n",
			op.Name, op.AvgLatency, op.P95Latency, op.P99Latency, op.Iterations)
	}

	initOp, err := benchmarkInitialization(client, "file://"+filepath.ToSlash(root))
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	add(initOp)

	// initialized builds the catalog without a response to wait on
	time.Sleep(200 * time.Millisecond)

	const uri = "file:///benchmark/breakpoints.css"
	if err := client.DidOpen(uri, "css", benchmarkCSS); err != nil {
		return fmt.Errorf("didOpen: %w", err)
	}

	add(benchmarkHover(client, uri, opts.iterations))
	add(benchmarkDiagnostics(client, uri, opts.iterations))
	add(benchmarkCatalog(client, opts.iterations))
	add(benchmarkResolve(client, opts.iterations))
	report.Memory = getMemoryStats(client, uri)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}

	const mb = 1 << 20
	fmt.Printf("\nmemory: idle %.2f MB, under load %.2f MB\n",
		float64(report.Memory.Idle)/mb, float64(report.Memory.UnderLoad)/mb)
	fmt.Printf("report written to %s\n", opts.output)
	return nil
}
