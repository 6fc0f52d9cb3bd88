package lsp

import (
	"encoding/json"

	responsiveranges "bennypowers.dev/rrls/lsp/methods/responsiveRanges"
	"bennypowers.dev/rrls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/rrls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// customMethod handles a request protocol.Handler doesn't know about
type customMethod func(ctx *glsp.Context) (result any, validParams bool, err error)

// custom decodes the request params and runs handler through the usual
// middleware. Absent or null params decode to the zero value.
func custom[P, R any](s types.ServerContext, methodName string, handler func(*types.RequestContext, *P) (R, error)) customMethod {
	wrapped := method(s, methodName, handler)
	return func(ctx *glsp.Context) (any, bool, error) {
		var params P
		if len(ctx.Params) > 0 && string(ctx.Params) != "null" {
			if err := json.Unmarshal(ctx.Params, &params); err != nil {
				return nil, false, err
			}
		}
		result, err := wrapped(ctx, &params)
		if err != nil {
			return nil, true, err
		}
		return result, true, nil
	}
}

// CustomHandler wraps protocol.Handler to add custom method support.
//
// glsp v0.2.2 implements LSP 3.16: protocol.Handler has no field for
// textDocument/diagnostic (3.17) and none for the server's own
// responsiveRanges/* requests, so they are intercepted here.
type CustomHandler struct {
	*protocol.Handler // Pointer to avoid copying embedded mutex
	server            *Server
	methods           map[string]customMethod
}

func newCustomHandler(s *Server, handler *protocol.Handler) *CustomHandler {
	return &CustomHandler{
		Handler: handler,
		server:  s,
		methods: map[string]customMethod{
			"textDocument/diagnostic":      custom(s, "textDocument/diagnostic", diagnostic.DocumentDiagnostic),
			responsiveranges.MethodCatalog: custom(s, responsiveranges.MethodCatalog, responsiveranges.Catalog),
			responsiveranges.MethodResolve: custom(s, responsiveranges.MethodResolve, responsiveranges.Resolve),
		},
	}
}

// Handle implements glsp.Handler interface
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	// The parsed 3.16 InitializeParams has no "diagnostic" capability, so
	// detect it from the raw params, then let initialize proceed as usual
	if context.Method == "initialize" {
		h.server.SetClientDiagnosticCapability(DetectPullDiagnosticsSupport(context.Params))
	}

	if handle, ok := h.methods[context.Method]; ok {
		result, validParams, err := handle(context)
		return result, true, validParams, err
	}

	return h.Handler.Handle(context)
}
