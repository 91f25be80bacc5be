package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	casesFile         = "cases.json"
	vaultFile         = "vault.enc"
	vaultPlainFile    = "vault.json"
	keyFile           = "vault.key"
	caseFileMode      = 0644
	vaultFileMode     = 0600
	dataDirMode       = 0755
)

// FileStore is the durable backend: a JSON case table plus a separately
// encrypted vault, both under one data directory. A single writer per
// data directory is assumed; concurrent processes are not supported.
type FileStore struct {
	dir     string
	encrypt bool
	key     []byte
}

// NewFileStore opens (creating if needed) the data directory and the vault
// key. encrypt controls whether the vault is sealed at rest; the shipped
// policy profiles always request encryption.
func NewFileStore(dir string, encrypt bool) (*FileStore, error) {
	if err := os.MkdirAll(dir, dataDirMode); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{dir: dir, encrypt: encrypt}
	if encrypt {
		key, err := loadOrCreateKey(filepath.Join(dir, keyFile))
		if err != nil {
			return nil, err
		}
		s.key = key
	}
	return s, nil
}

// LoadCases reads the case table. A missing file is a first run and loads
// as an empty table.
func (s *FileStore) LoadCases() (map[string]*Case, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, casesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*Case), nil
		}
		return nil, fmt.Errorf("failed to read case table: %w", err)
	}

	var cases map[string]*Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("case table is corrupt: %w", err)
	}
	if cases == nil {
		cases = make(map[string]*Case)
	}
	return cases, nil
}

func (s *FileStore) SaveCases(cases map[string]*Case) error {
	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal case table: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, casesFile), data, caseFileMode); err != nil {
		return fmt.Errorf("failed to write case table: %w", err)
	}
	return nil
}

// LoadVault reads and, when encryption is on, decrypts the vault. Unlike
// the case table, a vault that exists but cannot be decrypted is an error:
// silently dropping token mappings would orphan every redacted case.
func (s *FileStore) LoadVault() (Vault, error) {
	path := filepath.Join(s.dir, s.vaultFileName())
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(Vault), nil
		}
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}

	if s.encrypt {
		data, err = open(s.key, string(data))
		if err != nil {
			return nil, err
		}
	}

	var vault Vault
	if err := json.Unmarshal(data, &vault); err != nil {
		return nil, fmt.Errorf("vault is corrupt: %w", err)
	}
	if vault == nil {
		vault = make(Vault)
	}
	return vault, nil
}

func (s *FileStore) SaveVault(vault Vault) error {
	data, err := json.Marshal(vault)
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}

	if s.encrypt {
		sealed, err := seal(s.key, data)
		if err != nil {
			return err
		}
		data = []byte(sealed)
	}

	if err := os.WriteFile(filepath.Join(s.dir, s.vaultFileName()), data, vaultFileMode); err != nil {
		return fmt.Errorf("failed to write vault: %w", err)
	}
	return nil
}

// Size sums the bytes of the persisted case table and vault.
func (s *FileStore) Size() int64 {
	var total int64
	for _, name := range []string{casesFile, s.vaultFileName()} {
		if info, err := os.Stat(filepath.Join(s.dir, name)); err == nil {
			total += info.Size()
		}
	}
	return total
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) vaultFileName() string {
	if s.encrypt {
		return vaultFile
	}
	return vaultPlainFile
}
