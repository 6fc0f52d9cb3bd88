package main

import (
	"fmt"
	"os"

	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/version"
	"bennypowers.dev/rrls/lsp"
	"bennypowers.dev/rrls/lsp/methods/lifecycle"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(lifecycle.ServerName, version.GetFullVersion())
		return
	}

	if name := os.Getenv("RRLS_LOG_LEVEL"); name != "" {
		if level, ok := log.ParseLevel(name); ok {
			log.SetLevel(level)
		} else {
			log.Warn("Unknown RRLS_LOG_LEVEL %q, using %s", name, log.GetLevel())
		}
	}

	server, err := lsp.NewServer()
	if err != nil {
		log.Error("Failed to create LSP server: %v", err)
		os.Exit(1)
	}
	defer func() { _ = server.Close() }()

	// stdio transport, as editors launch it
	if err := server.RunStdio(); err != nil {
		log.Error("Server error: %v", err)
		os.Exit(1)
	}
}
