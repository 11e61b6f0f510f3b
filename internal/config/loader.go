package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSim loads the simulation configuration.
// Search order: customPath -> ~/.fighter/configs/sim.yaml -> ./configs/sim.yaml -> embedded default
//
// Files are decoded over the defaults, so a file may override only the
// keys it names. The result is validated.
func LoadSim(customPath string) (SimConfig, error) {
	cfg, err := loadSim(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadSim(customPath string) (SimConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultSimConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseSim(data)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("sim.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseSim(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/sim.yaml"); err == nil {
		if cfg, err := ParseSim(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseSim(defaultSimYAML)
	if err != nil {
		return DefaultSimConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseSim decodes YAML over the hard-coded defaults.
func ParseSim(data []byte) (SimConfig, error) {
	cfg := DefaultSimConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultSimConfig(), err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fighter", "configs", filename)
}
