/*
Package storage persists the case table and the per-case PII vault.

Two interchangeable backends implement the Store contract: a durable
file-based store (cases.json plus an encrypted vault file with a locally
generated key) and an ephemeral in-memory store for tests and throwaway
sessions. A first run, where nothing has been persisted yet, loads as
empty maps rather than an error.
*/
package storage

// Store is the persistence contract consumed by the engine.
type Store interface {
	// LoadCases returns the full case table. Missing backing data yields
	// an empty map, not an error.
	LoadCases() (map[string]*Case, error)

	// SaveCases persists the full case table, replacing previous state.
	SaveCases(cases map[string]*Case) error

	// LoadVault returns the token vault. Missing backing data yields an
	// empty vault; a vault that exists but cannot be decrypted is an error.
	LoadVault() (Vault, error)

	// SaveVault persists the full vault, replacing previous state.
	SaveVault(vault Vault) error

	// Size reports the bytes used by the backing store, 0 when the
	// backend has no durable footprint.
	Size() int64

	// Close releases backend resources.
	Close() error
}
