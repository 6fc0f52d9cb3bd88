package workspace

import (
	"fmt"

	"bennypowers.dev/rrls/internal/log"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// notify sends a window notification without waiting on the client.
// Contexts without a connection are skipped.
func notify(ctx *glsp.Context, method string, params any) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	go ctx.Notify(method, params)
}

func logMessage(ctx *glsp.Context, level log.Level, typ protocol.MessageType, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	switch level {
	case log.LevelError:
		log.Error("%s", message)
	case log.LevelWarn:
		log.Warn("%s", message)
	default:
		log.Info("%s", message)
	}
	notify(ctx, protocol.ServerWindowLogMessage, &protocol.LogMessageParams{Type: typ, Message: message})
}

// LogError writes to stderr and the client's output channel
func LogError(ctx *glsp.Context, format string, args ...any) {
	logMessage(ctx, log.LevelError, protocol.MessageTypeError, format, args...)
}

// LogWarning writes to stderr and the client's output channel
func LogWarning(ctx *glsp.Context, format string, args ...any) {
	logMessage(ctx, log.LevelWarn, protocol.MessageTypeWarning, format, args...)
}

// LogInfo reports progress, such as catalog sizes
func LogInfo(ctx *glsp.Context, format string, args ...any) {
	logMessage(ctx, log.LevelInfo, protocol.MessageTypeInfo, format, args...)
}

// ShowMessage pops message up in the client
func ShowMessage(ctx *glsp.Context, typ protocol.MessageType, message string) {
	notify(ctx, protocol.ServerWindowShowMessage, &protocol.ShowMessageParams{Type: typ, Message: message})
}
