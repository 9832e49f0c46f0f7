// Package config manages CLI configuration through a viper singleton.
// Precedence: flags (bound by the command layer) > CAPSULE_* environment
// variables > capsule.yaml in the workspace root > defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// v is the package-level viper instance, rebuilt by Initialize.
var v *viper.Viper

// Initialize builds the viper singleton: defaults, CAPSULE_ env binding,
// and an optional capsule.yaml discovered in the current directory.
func Initialize() error {
	nv := viper.New()

	// Defaults
	nv.SetDefault("capsule", "")
	nv.SetDefault("root", ".")
	nv.SetDefault("actor", "")
	nv.SetDefault("json", false)

	// Environment: CAPSULE_CAPSULE, CAPSULE_ROOT, CAPSULE_ACTOR, ...
	nv.SetEnvPrefix("CAPSULE")
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	nv.AutomaticEnv()

	// Optional workspace config file.
	nv.SetConfigName("capsule")
	nv.SetConfigType("yaml")
	nv.AddConfigPath(".")
	if err := nv.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading capsule.yaml: %w", err)
		}
	}

	v = nv
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool returns a boolean config value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// Set overrides a config value (used by flag binding in the command layer).
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
