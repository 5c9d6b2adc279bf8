package survey

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/churnlab/margins/pkg/errors"
)

// Manifest records the provenance of one generation run: a fresh run
// ID, the moment of generation, and the exact parameters, so any
// dataset on disk can be traced back to the inputs that produced it.
type Manifest struct {
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Seed        uint64      `json:"seed"`
	Rows        int         `json:"rows"`
	Variables   []string    `json:"variables"`
	Corr        [][]float64 `json:"correlations"`
	SD          []float64   `json:"stddevs"`
	Mean        []float64   `json:"means"`
}

// NewManifest stamps a run with a fresh UUID and a UTC timestamp.
func NewManifest(p *Params, rows int) *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Seed:        p.Seed,
		Rows:        rows,
		Variables:   p.VariableNames(),
		Corr:        p.symmetrized(),
		SD:          append([]float64(nil), p.SD...),
		Mean:        append([]float64(nil), p.Mean...),
	}
}

// WriteJSON writes the manifest as indented JSON.
func (m *Manifest) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(m), "failed to encode manifest")
}

// WriteFile writes the manifest to the given path.
func (m *Manifest) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create manifest file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close manifest file")
		}
	}()
	return m.WriteJSON(f)
}

// ReadManifest reads a manifest written by WriteFile.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest file")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode manifest")
	}
	return &m, nil
}
