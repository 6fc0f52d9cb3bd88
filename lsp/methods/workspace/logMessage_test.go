package workspace

import (
	"bytes"
	"testing"
	"time"

	"bennypowers.dev/rrls/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type sent struct {
	method string
	params any
}

func recordingContext() (*glsp.Context, <-chan sent) {
	ch := make(chan sent, 4)
	return &glsp.Context{Notify: func(method string, params any) {
		ch <- sent{method, params}
	}}, ch
}

func receive(t *testing.T, ch <-chan sent) sent {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("client was not notified")
		return sent{}
	}
}

func TestLogMessages(t *testing.T) {
	tests := []struct {
		name   string
		log    func(*glsp.Context, string, ...any)
		typ    protocol.MessageType
		stderr string
	}{
		{"error", LogError, protocol.MessageTypeError, "[RRLS] ERROR: 2 stylesheets inaccessible\n"},
		{"warning", LogWarning, protocol.MessageTypeWarning, "[RRLS] WARN: 2 stylesheets inaccessible\n"},
		{"info", LogInfo, protocol.MessageTypeInfo, "[RRLS] INFO: 2 stylesheets inaccessible\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			t.Cleanup(func() { log.SetOutput(nil) })

			ctx, ch := recordingContext()
			tt.log(ctx, "%d stylesheets inaccessible", 2)

			s := receive(t, ch)
			assert.Equal(t, protocol.ServerWindowLogMessage, s.method)
			assert.Equal(t, &protocol.LogMessageParams{Type: tt.typ, Message: "2 stylesheets inaccessible"}, s.params)
			assert.Equal(t, tt.stderr, buf.String())
		})
	}
}

func TestShowMessage(t *testing.T) {
	ctx, ch := recordingContext()
	ShowMessage(ctx, protocol.MessageTypeWarning, "Some stylesheets could not be loaded")

	s := receive(t, ch)
	assert.Equal(t, protocol.ServerWindowShowMessage, s.method)
	assert.Equal(t, &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeWarning,
		Message: "Some stylesheets could not be loaded",
	}, s.params)
}

func TestLogMessages_WithoutConnection(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(nil) })

	assert.NotPanics(t, func() {
		LogError(nil, "no client")
		LogWarning(&glsp.Context{}, "no connection")
		ShowMessage(nil, protocol.MessageTypeInfo, "dropped")
	})
	assert.Contains(t, buf.String(), "ERROR: no client")
	assert.Contains(t, buf.String(), "WARN: no connection")
}
