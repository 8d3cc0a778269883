package pipeline

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ManifestName is the file written alongside the cleaned outputs.
const ManifestName = "manifest.yaml"

// Manifest records what a cleaning run produced.
type Manifest struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Region      string    `yaml:"region"`
	Outputs     []Output  `yaml:"outputs"`
}

// Output describes one written file.
type Output struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Kind string `yaml:"kind"` // "csv" or "shapefile"
	Rows int    `yaml:"rows"`
	CRS  string `yaml:"crs,omitempty"`
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "pipeline: marshal manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "pipeline: write %s", path)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse %s", path)
	}
	return &m, nil
}
