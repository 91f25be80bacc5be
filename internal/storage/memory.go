package storage

// MemoryStore is the ephemeral backend: everything lives in process maps
// and is discarded on exit. Used by tests and the --memory CLI mode.
type MemoryStore struct {
	cases map[string]*Case
	vault Vault
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cases: make(map[string]*Case),
		vault: make(Vault),
	}
}

func (s *MemoryStore) LoadCases() (map[string]*Case, error) {
	out := make(map[string]*Case, len(s.cases))
	for id, c := range s.cases {
		out[id] = c
	}
	return out, nil
}

func (s *MemoryStore) SaveCases(cases map[string]*Case) error {
	s.cases = make(map[string]*Case, len(cases))
	for id, c := range cases {
		s.cases[id] = c
	}
	return nil
}

func (s *MemoryStore) LoadVault() (Vault, error) {
	out := make(Vault, len(s.vault))
	for id, m := range s.vault {
		entry := make(map[string]string, len(m))
		for token, original := range m {
			entry[token] = original
		}
		out[id] = entry
	}
	return out, nil
}

func (s *MemoryStore) SaveVault(vault Vault) error {
	s.vault = make(Vault, len(vault))
	for id, m := range vault {
		entry := make(map[string]string, len(m))
		for token, original := range m {
			entry[token] = original
		}
		s.vault[id] = entry
	}
	return nil
}

// Size is always 0: nothing durable exists.
func (s *MemoryStore) Size() int64 { return 0 }

func (s *MemoryStore) Close() error { return nil }
