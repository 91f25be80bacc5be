/*
Package cli implements the command-line interface for casevault.

Each command is a separate constructor returning a *cobra.Command. All
commands share an Env carrying the global flag values and building the
engine on demand, so tests can wire isolated environments.
*/
package cli

import (
	"fmt"
	"log"

	"casevault/internal/config"
	"casevault/internal/engine"
	"casevault/internal/policy"
	"casevault/internal/storage"
)

// Env carries global flag values shared by every subcommand. Zero values
// mean "use the config file default".
type Env struct {
	DataDir string
	Memory  bool
	Profile string

	// cfg is loaded lazily on first use.
	cfg *config.Config
}

// NewEnv returns an empty environment for the root command to bind
// flags into.
func NewEnv() *Env { return &Env{} }

// Config resolves the effective configuration: file values overridden by
// whichever global flags were set.
func (env *Env) Config() (*config.Config, error) {
	if env.cfg != nil {
		return env.cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if env.DataDir != "" {
		cfg.DataDir = env.DataDir
	}
	if env.Memory {
		cfg.Memory = true
	}
	if env.Profile != "" {
		cfg.DefaultProfile = env.Profile
	}
	env.cfg = cfg
	return cfg, nil
}

// BuildEngine constructs the engine from the effective configuration.
// The returned cleanup closes the storage backend and audit trail.
//
// An unknown profile name falls back to the permissive default; that is
// deliberate CLI forgiveness, but it must never happen silently, so a
// warning is logged before continuing.
func (env *Env) BuildEngine() (*engine.Engine, func(), error) {
	cfg, err := env.Config()
	if err != nil {
		return nil, nil, err
	}

	prof, found := policy.Lookup(cfg.DefaultProfile)
	if !found {
		log.Printf("Warning: unknown policy profile %q, falling back to %q (known profiles: %v)",
			cfg.DefaultProfile, prof.Name, policy.Names())
	}

	var store storage.Store
	trail := storage.NopAuditTrail()
	if cfg.Memory {
		store = storage.NewMemoryStore()
	} else {
		fileStore, err := storage.NewFileStore(cfg.DataDir, prof.EncryptVault)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open storage: %w", err)
		}
		store = fileStore
		if prof.AuditLog {
			trail = storage.OpenAuditTrail(cfg.DataDir)
		}
	}

	eng := engine.New(store, prof, trail)
	cleanup := func() {
		trail.Close()
		store.Close()
	}
	return eng, cleanup, nil
}
