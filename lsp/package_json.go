package lsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bennypowers.dev/rrls/lsp/types"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ConfigKey is the package.json and client settings key holding the
// server configuration
const ConfigKey = "responsiveRanges"

// configFiles are tried in order under <root>/.config when package.json
// has no configuration. YAML is a superset of JSON, so one decoder reads all.
var configFiles = []string{
	"responsive-ranges.yaml",
	"responsive-ranges.yml",
	"responsive-ranges.json",
}

// readPackageJsonFile reads and parses package.json from the given root path.
// Returns the parsed JSON as a map, or nil if the file doesn't exist.
func readPackageJsonFile(rootPath string) (map[string]any, error) {
	packageJSONPath := filepath.Join(rootPath, "package.json")

	data, err := os.ReadFile(packageJSONPath) //nolint:gosec // G304: Reading workspace package.json - local trusted environment
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil // Not an error, just no config
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	// Parse as JSONC (allows comments)
	var pkgJSON map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkgJSON); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	return pkgJSON, nil
}

// extractConfigMap extracts the responsiveRanges configuration map.
// Returns nil if the field doesn't exist (not an error).
func extractConfigMap(pkgJSON map[string]any) (map[string]any, error) {
	raw, ok := pkgJSON[ConfigKey]
	if !ok {
		return nil, nil // No config, not an error
	}

	configMap, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", ConfigKey)
	}

	return configMap, nil
}

// parseStylesheetsField parses the stylesheets field from configuration.
// A single string is a one-element list; non-string items are skipped.
func parseStylesheetsField(configMap map[string]any) []string {
	switch v := configMap["stylesheets"].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var stylesheets []string
		for _, item := range v {
			if str, ok := item.(string); ok && str != "" {
				stylesheets = append(stylesheets, str)
			}
		}
		return stylesheets
	}
	return nil
}

// parseNumberField reads a pixel size. JSON numbers decode as float64,
// YAML integers as int.
func parseNumberField(configMap map[string]any, key string) float64 {
	switch v := configMap[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// buildServerConfig constructs a ServerConfig from the parsed configuration map.
// Fields that are absent stay at their zero value.
func buildServerConfig(configMap map[string]any) *types.ServerConfig {
	config := &types.ServerConfig{
		Stylesheets:  parseStylesheetsField(configMap),
		RootFontSize: parseNumberField(configMap, "rootFontSize"),
		FontSize:     parseNumberField(configMap, "fontSize"),
		XHeight:      parseNumberField(configMap, "xHeight"),
		ChWidth:      parseNumberField(configMap, "chWidth"),
	}
	if page, ok := configMap["page"].(string); ok {
		config.Page = page
	}
	return config
}

// ReadPackageJsonConfig reads responsiveRanges configuration from package.json.
// Falls back to .config/responsive-ranges.{yaml,yml,json} if no package.json config is found.
// Returns nil if no configuration exists (not an error).
func ReadPackageJsonConfig(rootPath string) (*types.ServerConfig, error) {
	if rootPath == "" {
		return nil, nil
	}

	pkgJSON, err := readPackageJsonFile(rootPath)
	if err != nil {
		return nil, err
	}

	if pkgJSON != nil {
		configMap, err := extractConfigMap(pkgJSON)
		if err != nil {
			return nil, err
		}
		if configMap != nil {
			return buildServerConfig(configMap), nil
		}
	}

	return ReadConfigFile(rootPath)
}

// ReadConfigFile reads the first of .config/responsive-ranges.{yaml,yml,json}
// under rootPath. Returns nil if none exists.
func ReadConfigFile(rootPath string) (*types.ServerConfig, error) {
	for _, name := range configFiles {
		path := filepath.Join(rootPath, ".config", name)
		data, err := os.ReadFile(path) //nolint:gosec // G304: Reading workspace config - local trusted environment
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		var configMap map[string]any
		if err := yaml.Unmarshal(data, &configMap); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if configMap == nil {
			return &types.ServerConfig{}, nil
		}
		return buildServerConfig(configMap), nil
	}
	return nil, nil
}
