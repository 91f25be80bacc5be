package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func sampleCase(id string) *Case {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	return &Case{
		CaseID:          id,
		Summary:         "agent heartbeat missing on production fleet",
		Symptoms:        []string{"no heartbeat rows since Monday"},
		Environment:     map[string]string{"agent_version": "1.21.0"},
		ErrorPatterns:   []string{"Error: connection refused"},
		Tags:            []string{"AMA", "Heartbeat"},
		Priority:        "high",
		ContentRedacted: "contact [EMAIL_1] at [IP_1]",
		WordCount:       5,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, true)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	cases := map[string]*Case{"ICM-1": sampleCase("ICM-1")}
	vault := Vault{"ICM-1": {"[EMAIL_1]": "a@x.io", "[IP_1]": "10.0.0.1"}}

	if err := s.SaveCases(cases); err != nil {
		t.Fatalf("SaveCases: %v", err)
	}
	if err := s.SaveVault(vault); err != nil {
		t.Fatalf("SaveVault: %v", err)
	}

	// Reopen: a fresh store must read back identical state with the
	// persisted key.
	s2, err := NewFileStore(dir, true)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	gotCases, err := s2.LoadCases()
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if diff := cmp.Diff(cases, gotCases); diff != "" {
		t.Errorf("cases mismatch (-want +got):\n%s", diff)
	}

	gotVault, err := s2.LoadVault()
	if err != nil {
		t.Fatalf("LoadVault: %v", err)
	}
	if diff := cmp.Diff(vault, gotVault); diff != "" {
		t.Errorf("vault mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStoreFirstRunIsEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	cases, err := s.LoadCases()
	if err != nil || len(cases) != 0 {
		t.Errorf("LoadCases on first run = %v, %v; want empty, nil", cases, err)
	}
	vault, err := s.LoadVault()
	if err != nil || len(vault) != 0 {
		t.Errorf("LoadVault on first run = %v, %v; want empty, nil", vault, err)
	}
	if s.Size() != 0 {
		t.Errorf("Size on first run = %d, want 0", s.Size())
	}
}

func TestVaultEncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, true)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	if err := s.SaveVault(Vault{"ICM-1": {"[EMAIL_1]": "secret@example.com"}}); err != nil {
		t.Fatalf("SaveVault: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "vault.enc"))
	if err != nil {
		t.Fatalf("read vault file: %v", err)
	}
	if strings.Contains(string(raw), "secret@example.com") {
		t.Error("vault file contains plaintext PII")
	}
	if !strings.HasPrefix(string(raw), "v1:") {
		t.Errorf("vault file missing self-describing version prefix: %.20s", raw)
	}
}

func TestVaultWrongKeyFails(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, true)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.SaveVault(Vault{"ICM-1": {"[IP_1]": "10.0.0.1"}}); err != nil {
		t.Fatalf("SaveVault: %v", err)
	}
	s.Close()

	// Replace the key: decryption must fail loudly, not return empty data.
	if err := os.Remove(filepath.Join(dir, "vault.key")); err != nil {
		t.Fatal(err)
	}
	s2, err := NewFileStore(dir, true)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if _, err := s2.LoadVault(); err == nil {
		t.Error("LoadVault with wrong key succeeded, want error")
	}
}

func TestVaultTamperedCiphertextFails(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, true)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()
	if err := s.SaveVault(Vault{"ICM-1": {"[IP_1]": "10.0.0.1"}}); err != nil {
		t.Fatalf("SaveVault: %v", err)
	}

	path := filepath.Join(dir, "vault.enc")
	raw, _ := os.ReadFile(path)
	raw[len(raw)-1] ^= 0xff
	if err := os.WriteFile(path, raw, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadVault(); err == nil {
		t.Error("LoadVault on tampered ciphertext succeeded, want error")
	}
}

func TestCorruptCaseTableIsError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cases.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(dir, true)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	if _, err := s.LoadCases(); err == nil {
		t.Error("LoadCases on corrupt table succeeded, want error for the engine to recover from")
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	cases := map[string]*Case{"ICM-1": sampleCase("ICM-1")}
	if err := s.SaveCases(cases); err != nil {
		t.Fatalf("SaveCases: %v", err)
	}

	// Mutating the caller's map after save must not affect the store.
	delete(cases, "ICM-1")
	got, err := s.LoadCases()
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("store shares caller's map: got %d cases", len(got))
	}
	if s.Size() != 0 {
		t.Errorf("memory store Size = %d, want 0", s.Size())
	}
}

func TestAuditTrailRecords(t *testing.T) {
	trail := OpenAuditTrail(t.TempDir())
	defer trail.Close()

	trail.Record(AuditEvent{Op: "add_case", CaseID: "ICM-1", Profile: "strict", Outcome: "ok"})
	trail.Record(AuditEvent{Op: "get_case_full", CaseID: "ICM-1", Profile: "strict", Outcome: "denied"})

	n, err := trail.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("audit event count = %d, want 2", n)
	}
}

func TestNopAuditTrail(t *testing.T) {
	trail := NopAuditTrail()
	trail.Record(AuditEvent{Op: "add_case"})
	if n, err := trail.Count(); err != nil || n != 0 {
		t.Errorf("nop trail Count = %d, %v; want 0, nil", n, err)
	}
	if err := trail.Close(); err != nil {
		t.Errorf("nop trail Close: %v", err)
	}
}
