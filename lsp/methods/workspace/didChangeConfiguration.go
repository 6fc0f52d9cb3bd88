package workspace

import (
	"encoding/json"
	"errors"
	"fmt"

	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Settings keys the server's section may be sent under
const (
	SettingsKey    = "responsiveRanges"
	SettingsKeyAlt = "responsive-ranges"
)

var errSettingsNotMap = errors.New("settings is not a map")

// DidChangeConfiguration replaces the configuration with the client's,
// rebuilds the catalog and republishes diagnostics, since font metrics
// change what relative bounds convert to. Unreadable settings leave the
// current configuration in place.
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	config, err := parseConfiguration(params.Settings)
	if err != nil {
		req.Warnf("failed to parse configuration: %w", err)
		return nil
	}

	req.Server.SetConfig(config)
	log.Info("Configuration changed: %d stylesheet patterns, page %q", len(config.Stylesheets), config.Page)

	if err := req.Server.LoadCatalog(); err != nil {
		req.Warnf("failed to reload stylesheets: %w", err)
	}

	republishDiagnostics(req)
	return nil
}

// republishDiagnostics pushes diagnostics for every open document
func republishDiagnostics(req *types.RequestContext) {
	if req.Server.UsePullDiagnostics() {
		return
	}
	conn := req.Server.GLSPContext()
	if conn == nil {
		return
	}
	for _, doc := range req.Server.AllDocuments() {
		if err := req.Server.PublishDiagnostics(conn, doc.URI()); err != nil {
			req.Warnf("failed to publish diagnostics for %s: %w", doc.URI(), err)
		}
	}
}

// section returns the server's part of the settings object, or nil
func section(settings map[string]any) any {
	for _, key := range []string{SettingsKey, SettingsKeyAlt} {
		if v, ok := settings[key]; ok {
			return v
		}
	}
	return nil
}

// parseConfiguration reads the client's settings over the defaults.
// Missing settings, or settings without the server's section, yield the
// defaults.
func parseConfiguration(settings any) (types.ServerConfig, error) {
	config := types.DefaultConfig()
	if settings == nil {
		return config, nil
	}

	m, ok := settings.(map[string]any)
	if !ok {
		return config, errSettingsNotMap
	}
	ours := section(m)
	if ours == nil {
		return config, nil
	}

	data, err := json.Marshal(ours)
	if err != nil {
		return config, fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if len(config.Stylesheets) == 0 {
		config.Stylesheets = append([]string(nil), types.DefaultStylesheets...)
	}
	return config, nil
}
