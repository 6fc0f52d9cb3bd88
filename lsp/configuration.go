package lsp

import (
	"slices"

	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/lsp/types"
)

// GetConfig returns the current server configuration
func (s *Server) GetConfig() types.ServerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// SetConfig updates the server configuration
func (s *Server) SetConfig(config types.ServerConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
}

// LoadPackageJsonConfig reads and merges configuration from package.json
// or .config/responsive-ranges.*. Client-sent configuration takes
// precedence: workspace values only fill fields still at their defaults.
func (s *Server) LoadPackageJsonConfig() error {
	rootPath := s.RootPath()
	if rootPath == "" {
		return nil // No workspace, nothing to load
	}

	fileConfig, err := ReadPackageJsonConfig(rootPath)
	if err != nil {
		return err
	}
	if fileConfig == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = mergeConfig(s.config, *fileConfig)
	log.Info("Loaded workspace configuration: %d stylesheet patterns, page %q",
		len(s.config.Stylesheets), s.config.Page)
	return nil
}

// mergeConfig fills the fields of current that are unset or default from
// workspace
func mergeConfig(current, workspace types.ServerConfig) types.ServerConfig {
	defaults := types.DefaultConfig()

	isDefaultStylesheets := len(current.Stylesheets) == 0 ||
		slices.Equal(current.Stylesheets, defaults.Stylesheets)
	if isDefaultStylesheets && len(workspace.Stylesheets) > 0 {
		current.Stylesheets = workspace.Stylesheets
	}
	if current.Page == "" {
		current.Page = workspace.Page
	}

	fill := func(field *float64, def, value float64) {
		if (*field == 0 || *field == def) && value > 0 {
			*field = value
		}
	}
	fill(&current.RootFontSize, defaults.RootFontSize, workspace.RootFontSize)
	fill(&current.FontSize, defaults.FontSize, workspace.FontSize)
	fill(&current.XHeight, defaults.XHeight, workspace.XHeight)
	fill(&current.ChWidth, defaults.ChWidth, workspace.ChWidth)
	return current
}
