package types

import (
	"fmt"
	"sync"

	"github.com/tliron/glsp"
)

// RequestContext is handed to every LSP method handler. Warnings added
// during the call are reported to the client once the handler succeeds.
type RequestContext struct {
	Server ServerContext
	GLSP   *glsp.Context

	mu       sync.Mutex
	warnings []error
}

// NewRequestContext creates a request context. glspCtx is nil in unit tests.
func NewRequestContext(server ServerContext, glspCtx *glsp.Context) *RequestContext {
	return &RequestContext{Server: server, GLSP: glspCtx}
}

// Method returns the JSON-RPC method being handled, if known
func (r *RequestContext) Method() string {
	if r.GLSP == nil {
		return ""
	}
	return r.GLSP.Method
}

// AddWarning records a non-fatal problem. Nil errors are ignored.
func (r *RequestContext) AddWarning(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.warnings = append(r.warnings, err)
	r.mu.Unlock()
}

// Warnf records a formatted warning
func (r *RequestContext) Warnf(format string, args ...any) {
	r.AddWarning(fmt.Errorf(format, args...))
}

// Warnings returns a copy of the recorded warnings, or nil
func (r *RequestContext) Warnings() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.warnings) == 0 {
		return nil
	}
	return append([]error(nil), r.warnings...)
}
