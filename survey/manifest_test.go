package survey

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestNewManifest verifies the stamp: a parseable run ID, a UTC
// timestamp, and a faithful echo of the inputs.
func TestNewManifest(t *testing.T) {
	p := DefaultParams(538, 42)
	m := NewManifest(p, 538)

	if _, err := uuid.Parse(m.RunID); err != nil {
		t.Errorf("Run ID %q is not a UUID: %v", m.RunID, err)
	}
	if m.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be set")
	}
	if m.GeneratedAt.Location() != time.UTC {
		t.Errorf("GeneratedAt should be UTC, got %v", m.GeneratedAt.Location())
	}
	if m.Seed != 42 || m.Rows != 538 {
		t.Errorf("Seed/Rows = %d/%d, want 42/538", m.Seed, m.Rows)
	}
	if len(m.Corr) != 3 || m.Corr[1][2] != -0.5 {
		t.Errorf("Correlations not echoed: %v", m.Corr)
	}

	// Two manifests for the same run still get distinct IDs.
	if NewManifest(p, 538).RunID == m.RunID {
		t.Error("Run IDs should be unique per manifest")
	}
}

// TestManifest_FileRoundTrip verifies the JSON sidecar reads back.
func TestManifest_FileRoundTrip(t *testing.T) {
	p := DefaultParams(100, 7)
	m := NewManifest(p, 100)

	path := filepath.Join(t.TempDir(), "turnover.manifest.json")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}

	if got.RunID != m.RunID {
		t.Errorf("RunID = %q, want %q", got.RunID, m.RunID)
	}
	if got.Seed != 7 || got.Rows != 100 {
		t.Errorf("Seed/Rows = %d/%d, want 7/100", got.Seed, got.Rows)
	}
	if !got.GeneratedAt.Equal(m.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, m.GeneratedAt)
	}
	if len(got.Variables) != 3 || got.Variables[0] != VarRefer {
		t.Errorf("Variables = %v, want the echoed ordering", got.Variables)
	}
}
