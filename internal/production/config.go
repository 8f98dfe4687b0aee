package production

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	ProductionsPath string   `json:"productions_path"`
	CandidatesPath  string   `json:"candidates_path"`
	CuratedFields   []string `json:"curated_fields,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd   string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	ProductionsAbs string `json:"-"` // Absolute path to the productions dataset
	CandidatesAbs  string `json:"-"` // Absolute path to the candidates file

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ProductionsPath: filepath.Join("docs", "data", "productions.json"),
		CandidatesPath:  filepath.Join("data", "candidates.json"),
		CuratedFields:   []string{FieldThemes},
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".playbill.json"

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/playbill/config.json if set, otherwise
// ~/.config/playbill/config.json. Returns empty string if the home
// directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "playbill", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "playbill", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/playbill/config.json or ~/.config/playbill/config.json)
// 3. Project config file at default location (.playbill.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	// Resolve effective working directory
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := DefaultConfig()

	// Load global config if it exists
	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	// Load project/explicit config file
	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir
	cfg.ProductionsAbs = resolvePath(workDir, cfg.ProductionsPath)
	cfg.CandidatesAbs = resolvePath(workDir, cfg.CandidatesPath)

	return cfg, nil
}

func resolvePath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, explicitEmpty, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	emptyErr := checkExplicitEmpty(globalCfgPath, explicitEmpty)
	if emptyErr != nil {
		return Config{}, "", emptyErr
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.playbill.json) or an
// explicit config file. Returns the config, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		// Check existence first to provide a clear "not found" error
		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		// Default project config file - optional
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, explicitEmpty, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	emptyErr := checkExplicitEmpty(cfgFile, explicitEmpty)
	if emptyErr != nil {
		return Config{}, "", emptyErr
	}

	return fileCfg, cfgFile, nil
}

func checkExplicitEmpty(path string, explicitEmpty map[string]bool) error {
	if explicitEmpty["productions_path"] {
		return fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrProductionsEmpty)
	}

	if explicitEmpty["candidates_path"] {
		return fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrCandidatesEmpty)
	}

	return nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files
// return zero config. Returns the config, a map of explicitly empty fields,
// whether the file was loaded, and any error.
func loadConfigFile(path string, mustExist bool) (Config, map[string]bool, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, nil, false, nil
		}

		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitEmpty, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, explicitEmpty, true, nil
}

func parseConfig(data []byte) (Config, map[string]bool, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	// Check which fields were explicitly set to empty
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	for _, key := range []string{"productions_path", "candidates_path"} {
		if val, exists := raw[key]; exists {
			if str, ok := val.(string); ok && str == "" {
				explicitEmpty[key] = true
			}
		}
	}

	return cfg, explicitEmpty, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.ProductionsPath != "" {
		base.ProductionsPath = overlay.ProductionsPath
	}

	if overlay.CandidatesPath != "" {
		base.CandidatesPath = overlay.CandidatesPath
	}

	// An explicit empty list disables curated-field protection, so nil is
	// the only "not set" value.
	if overlay.CuratedFields != nil {
		base.CuratedFields = overlay.CuratedFields
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.ProductionsPath == "" {
		return ErrProductionsEmpty
	}

	if cfg.CandidatesPath == "" {
		return ErrCandidatesEmpty
	}

	return nil
}
