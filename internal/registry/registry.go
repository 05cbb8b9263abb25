package registry

import (
	"errors"
	"fmt"
	"os"

	"github.com/stompsid-lgtm/clinicsnap/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrUnknownClinic is returned when a clinic ID is not in the registry
var ErrUnknownClinic = errors.New("unknown clinic")

// Registry is the static set of clinic sources, built once at process start
// and passed to components. It is never reconstructed from external state
// after loading.
type Registry struct {
	clinics []model.ClinicSource
	byID    map[string]int
}

// New builds a registry from the given sources, preserving order.
// Duplicate IDs are rejected.
func New(sources []model.ClinicSource) (*Registry, error) {
	r := &Registry{
		clinics: make([]model.ClinicSource, 0, len(sources)),
		byID:    make(map[string]int, len(sources)),
	}
	for _, c := range sources {
		if c.ID == "" {
			return nil, fmt.Errorf("clinic with empty id (name %q)", c.Name)
		}
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate clinic id %q", c.ID)
		}
		r.byID[c.ID] = len(r.clinics)
		r.clinics = append(r.clinics, c)
	}
	return r, nil
}

// Load reads a registry from a YAML file. An empty path loads the built-in
// default clinic set.
func Load(path string) (*Registry, error) {
	if path == "" {
		return New(defaultClinics())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var doc struct {
		Clinics []model.ClinicSource `yaml:"clinics"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return New(doc.Clinics)
}

// Get returns the clinic with the given ID
func (r *Registry) Get(id string) (model.ClinicSource, error) {
	i, ok := r.byID[id]
	if !ok {
		return model.ClinicSource{}, fmt.Errorf("%w: %s", ErrUnknownClinic, id)
	}
	return r.clinics[i], nil
}

// All returns all clinics in registry order
func (r *Registry) All() []model.ClinicSource {
	out := make([]model.ClinicSource, len(r.clinics))
	copy(out, r.clinics)
	return out
}

// BySourceType returns the clinics of one source type, in registry order
func (r *Registry) BySourceType(t model.SourceType) []model.ClinicSource {
	var out []model.ClinicSource
	for _, c := range r.clinics {
		if c.SourceType == t {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of registered clinics
func (r *Registry) Len() int {
	return len(r.clinics)
}
