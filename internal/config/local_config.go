package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig is the subset of capsule.yaml read directly from disk rather
// than through the viper singleton. Useful before Initialize has run, or
// when inspecting a workspace other than the current directory.
type LocalConfig struct {
	Capsule string `yaml:"capsule"`
	Root    string `yaml:"root"`
	Actor   string `yaml:"actor"`
}

// LoadLocalConfig reads capsule.yaml from dir. Returns an empty LocalConfig
// (not nil) if the file is missing or unparseable.
func LoadLocalConfig(dir string) *LocalConfig {
	data, err := os.ReadFile(filepath.Join(dir, "capsule.yaml")) // #nosec G304 - workspace path from caller
	if err != nil {
		return &LocalConfig{}
	}

	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &LocalConfig{}
	}
	return &cfg
}
