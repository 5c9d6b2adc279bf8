package survey

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/churnlab/margins/pkg/errors"
)

// paramsFile is the YAML schema for a complete run configuration.
type paramsFile struct {
	Variables []string    `yaml:"variables"`
	Corr      [][]float64 `yaml:"correlations"`
	SD        []float64   `yaml:"stddevs"`
	Mean      []float64   `yaml:"means"`
	N         int         `yaml:"n"`
	Seed      uint64      `yaml:"seed"`
}

// LoadParamsYAML reads a complete run configuration from a YAML file:
// the parameter tables plus n and seed. The configuration is
// validated before it is returned.
func LoadParamsYAML(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read params file")
	}
	return ParseParamsYAML(data)
}

// ParseParamsYAML parses and validates a YAML run configuration.
func ParseParamsYAML(data []byte) (*Params, error) {
	var file paramsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse params YAML")
	}

	p := &Params{
		Variables: file.Variables,
		Corr:      file.Corr,
		SD:        file.SD,
		Mean:      file.Mean,
		N:         file.N,
		Seed:      file.Seed,
	}
	if p.Variables == nil {
		p.Variables = []string{VarRefer, VarJobSat, VarTurnover}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
