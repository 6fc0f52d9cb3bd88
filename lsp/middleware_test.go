package lsp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/lsp/testutil"
	"bennypowers.dev/rrls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func captureLog(t *testing.T, level log.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetLevel(level)
	t.Cleanup(func() {
		log.SetOutput(nil)
		log.SetLevel(log.LevelInfo)
	})
	return &buf
}

// clientLog returns a context whose window/logMessage notifications are
// delivered on the returned channel
func clientLog() (*glsp.Context, <-chan protocol.LogMessageParams) {
	messages := make(chan protocol.LogMessageParams, 8)
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if p, ok := params.(*protocol.LogMessageParams); ok && method == protocol.ServerWindowLogMessage {
				messages <- *p
			}
		},
	}
	return ctx, messages
}

func nextMessage(t *testing.T, messages <-chan protocol.LogMessageParams) protocol.LogMessageParams {
	t.Helper()
	select {
	case m := <-messages:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no window/logMessage received")
		return protocol.LogMessageParams{}
	}
}

func TestMiddleware_PanicBecomesError(t *testing.T) {
	server := testutil.NewMockServerContext()
	wrappers := map[string]func() error{
		"method": func() error {
			_, err := method(server, "responsiveRanges/resolve", func(*types.RequestContext, string) (string, error) {
				panic("resolver exploded")
			})(nil, "")
			return err
		},
		"notify": func() error {
			return notify(server, "textDocument/didOpen", func(*types.RequestContext, int) error {
				panic("resolver exploded")
			})(nil, 1)
		},
		"noParam": func() error {
			return noParam(server, "shutdown", func(*types.RequestContext) error {
				panic("resolver exploded")
			})(nil)
		},
	}

	for name, call := range wrappers {
		t.Run(name, func(t *testing.T) {
			logs := captureLog(t, log.LevelInfo)

			err := call()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "internal error in")
			assert.Contains(t, logs.String(), "PANIC")
			assert.Contains(t, logs.String(), "resolver exploded")
		})
	}
}

func TestMiddleware_ErrorIsWrappedAndReported(t *testing.T) {
	captureLog(t, log.LevelInfo)
	ctx, messages := clientLog()
	cause := errors.New("invalid size")

	wrapped := method(testutil.NewMockServerContext(), "responsiveRanges/resolve",
		func(*types.RequestContext, int) (*string, error) {
			return nil, cause
		})
	result, err := wrapped(ctx, -1)

	assert.Nil(t, result)
	require.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "responsiveRanges/resolve: invalid size")

	m := nextMessage(t, messages)
	assert.Equal(t, protocol.MessageTypeError, m.Type)
	assert.Equal(t, "responsiveRanges/resolve: invalid size", m.Message)
}

func TestMiddleware_WarningsAreReportedOnSuccess(t *testing.T) {
	logs := captureLog(t, log.LevelDebug)
	ctx, messages := clientLog()

	wrapped := notify(testutil.NewMockServerContext(), "workspace/didChangeWatchedFiles",
		func(req *types.RequestContext, _ string) error {
			req.Warnf("failed to reload stylesheets: %s", "layout.css")
			return nil
		})
	require.NoError(t, wrapped(ctx, ""))

	m := nextMessage(t, messages)
	assert.Equal(t, protocol.MessageTypeWarning, m.Type)
	assert.Equal(t, "workspace/didChangeWatchedFiles: failed to reload stylesheets: layout.css", m.Message)

	assert.Contains(t, logs.String(), "workspace/didChangeWatchedFiles started")
	assert.Contains(t, logs.String(), "workspace/didChangeWatchedFiles completed")
}

func TestMiddleware_Success(t *testing.T) {
	logs := captureLog(t, log.LevelDebug)

	var seen string
	wrapped := method(testutil.NewMockServerContext(), "textDocument/hover",
		func(req *types.RequestContext, uri string) (string, error) {
			seen = uri
			return "hover", nil
		})
	result, err := wrapped(nil, "file:///layout.css")

	require.NoError(t, err)
	assert.Equal(t, "hover", result)
	assert.Equal(t, "file:///layout.css", seen)
	assert.Contains(t, logs.String(), "textDocument/hover completed")

	require.NoError(t, noParam(testutil.NewMockServerContext(), "shutdown",
		func(*types.RequestContext) error { return nil })(nil))
}
