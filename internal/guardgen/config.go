// ABOUTME: Configuration for the guard injection rewrite
// ABOUTME: Loads TOML settings naming the directive, parameter types and guard function

package guardgen

import (
	"fmt"
	"go/token"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults used when a Config field is empty.
const (
	DefaultDirective    = "admin:require"
	DefaultContextType  = "Extern"
	DefaultEnvType      = "Env"
	DefaultGuardFunc    = "AssertAdmin"
	DefaultGuardImport  = "github.com/2389/multiadmin/internal/admin"
	DefaultGuardPackage = "admin"
)

// Config controls which functions are rewritten and what is injected.
type Config struct {
	Directive    string `toml:"directive"`
	ContextType  string `toml:"context_type"`
	EnvType      string `toml:"env_type"`
	GuardFunc    string `toml:"guard_func"`
	GuardPackage string `toml:"guard_package"`

	// GuardImport is the import path of the guard package. Empty means the
	// guard is called unqualified, for handlers living next to it.
	GuardImport string `toml:"guard_import"`
}

// DefaultConfig returns the configuration for this module's admin package.
func DefaultConfig() Config {
	return Config{
		Directive:    DefaultDirective,
		ContextType:  DefaultContextType,
		EnvType:      DefaultEnvType,
		GuardFunc:    DefaultGuardFunc,
		GuardPackage: DefaultGuardPackage,
		GuardImport:  DefaultGuardImport,
	}
}

// LoadConfig reads a TOML config file. Unset fields keep their defaults and
// unknown keys are rejected.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(filename, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if cfg.GuardImport != "" && cfg.GuardPackage == "" {
		cfg.GuardPackage = path.Base(cfg.GuardImport)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured names are usable in generated code.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Directive) == "" || strings.ContainsAny(c.Directive, " \t\n") {
		return fmt.Errorf("directive must be a single non-empty word, got %q", c.Directive)
	}
	for field, name := range map[string]string{
		"context_type": c.ContextType,
		"env_type":     c.EnvType,
		"guard_func":   c.GuardFunc,
	} {
		if !token.IsIdentifier(name) {
			return fmt.Errorf("%s must be a Go identifier, got %q", field, name)
		}
	}
	if c.GuardImport != "" && !token.IsIdentifier(c.GuardPackage) {
		return fmt.Errorf("guard_package must be a Go identifier, got %q", c.GuardPackage)
	}
	return nil
}

// contextShape is the human-readable shape reported when no context parameter is found.
func (c Config) contextShape() string {
	return "*" + c.ContextType + "[Storage, Api, Querier]"
}
