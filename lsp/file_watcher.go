package lsp

import (
	"path/filepath"

	"bennypowers.dev/rrls/internal/log"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// watchPatterns returns the configured page and stylesheet patterns as
// forward-slash globs, absolute when the workspace root is known
func (s *Server) watchPatterns() []string {
	cfg := s.GetConfig()
	rootPath := s.RootPath()

	entries := make([]string, 0, len(cfg.Stylesheets)+1)
	if cfg.Page != "" {
		entries = append(entries, cfg.Page)
	}
	entries = append(entries, cfg.Stylesheets...)

	patterns := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch {
		case filepath.IsAbs(entry):
			patterns = append(patterns, filepath.ToSlash(filepath.Clean(entry)))
		case rootPath != "":
			patterns = append(patterns, filepath.ToSlash(filepath.Join(rootPath, entry)))
		default:
			patterns = append(patterns, filepath.ToSlash(entry))
		}
	}
	return patterns
}

// IsWatchedFile reports whether path is the configured page or matches a
// configured stylesheet pattern
func (s *Server) IsWatchedFile(path string) bool {
	slashed := filepath.ToSlash(filepath.Clean(path))
	for _, pattern := range s.watchPatterns() {
		if matched, err := doublestar.Match(pattern, slashed); err == nil && matched {
			return true
		}
	}
	return false
}

// RegisterFileWatchers registers file watchers with the client
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// An empty context (created with &glsp.Context{}) won't have Call initialized
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	patterns := s.watchPatterns()
	if len(patterns) == 0 {
		log.Info("No file watchers to register")
		return nil
	}

	watchers := make([]protocol.FileSystemWatcher, 0, len(patterns))
	for _, pattern := range patterns {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: pattern})
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     "responsive-ranges-file-watcher",
				Method: "workspace/didChangeWatchedFiles",
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request. Calling it on the handler's
	// goroutine deadlocks: the response can't be read until the handler returns.
	go func(ctx *glsp.Context) {
		var result any
		ctx.Call("client/registerCapability", params, &result)
		log.Info("File watcher registration completed")
	}(context)

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}
