// Package project reads and writes the per-project files ionx manages:
// ionic.project, .bowerrc and the plugin manifests shipped in service packages.
package project

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/paths"
	"github.com/thoreinstein/ionx/pkg/fileutil"
)

const errContext = "service"

// Service is one entry of the services list in ionic.project.
type Service struct {
	Name string `json:"name"`
}

// Descriptor is the decoded ionic.project file. Values of keys other than
// services are kept verbatim across rewrites; top-level keys are written in
// sorted order.
type Descriptor struct {
	Services []Service

	extra map[string]json.RawMessage
	dirty bool
}

// NewDescriptor returns an empty descriptor.
func NewDescriptor() *Descriptor {
	return &Descriptor{extra: map[string]json.RawMessage{}}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	d.Services = nil
	if svc, ok := raw["services"]; ok {
		if err := json.Unmarshal(svc, &d.Services); err != nil {
			return err
		}
		delete(raw, "services")
	}
	d.extra = raw
	d.dirty = false
	return nil
}

// MarshalJSON implements json.Marshaler. Keys come out sorted.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.extra)+1)
	for k, v := range d.extra {
		out[k] = v
	}
	if d.Services != nil {
		out["services"] = d.Services
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Field returns the raw value of a top-level key other than services.
func (d *Descriptor) Field(key string) (json.RawMessage, bool) {
	v, ok := d.extra[key]
	return v, ok
}

// Dirty reports whether the descriptor changed since it was loaded.
func (d *Descriptor) Dirty() bool {
	return d.dirty
}

// HasService reports whether a service with name is recorded.
func (d *Descriptor) HasService(name string) bool {
	for _, s := range d.Services {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AddServiceIfAbsent appends name unless an entry with that name exists.
// It returns true when the descriptor changed.
func (d *Descriptor) AddServiceIfAbsent(name string) bool {
	if d.HasService(name) {
		return false
	}
	d.Services = append(d.Services, Service{Name: name})
	d.dirty = true
	return true
}

// RemoveService drops every entry named name. It returns true when the
// descriptor changed.
func (d *Descriptor) RemoveService(name string) bool {
	kept := d.Services[:0]
	for _, s := range d.Services {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(d.Services) {
		return false
	}
	d.Services = kept
	d.dirty = true
	return true
}

// Plugin is one native plugin a service needs.
type Plugin struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	URI  string `json:"uri"`
}

// PluginManifest is the ionic-plugins.json file of a service package.
type PluginManifest struct {
	Plugins []Plugin `json:"plugins"`
}

type bowerRC struct {
	Directory string `json:"directory"`
}

// Store accesses project files under Dir.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the ionic.project location.
func (s *Store) Path() string {
	return paths.ProjectFile(s.Dir)
}

// Exists reports whether ionic.project is present.
func (s *Store) Exists() bool {
	return paths.FileExists(s.Path())
}

// Load reads ionic.project. The file must exist.
func (s *Store) Load() (*Descriptor, error) {
	d := NewDescriptor()
	if err := fileutil.ReadJSON(s.Path(), d); err != nil {
		return nil, classifyRead(s.Path(), err)
	}
	return d, nil
}

// LoadOrDefault reads ionic.project, returning an empty descriptor when the
// file is absent.
func (s *Store) LoadOrDefault() (*Descriptor, error) {
	d, err := s.Load()
	if errors.Is(err, errors.ErrNotFound) {
		return NewDescriptor(), nil
	}
	return d, err
}

// Save rewrites ionic.project with 2-space indentation.
func (s *Store) Save(d *Descriptor) error {
	if err := fileutil.AtomicWriteJSON(s.Path(), d); err != nil {
		return errors.E(errors.KindConfigWrite, errContext,
			"Failed to write "+paths.ProjectFileName, err)
	}
	d.dirty = false
	return nil
}

// AddService records name in ionic.project, writing only when it was absent.
func (s *Store) AddService(name string) error {
	d, err := s.Load()
	if err != nil {
		return err
	}
	if !d.AddServiceIfAbsent(name) {
		return nil
	}
	return s.Save(d)
}

// RemoveService drops name from ionic.project. A missing file or entry is
// not an error.
func (s *Store) RemoveService(name string) error {
	d, err := s.Load()
	if errors.Is(err, errors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !d.RemoveService(name) {
		return nil
	}
	return s.Save(d)
}

// ComponentDir returns the bower component directory from .bowerrc,
// defaulting to www/lib when the file or its directory field is absent.
func (s *Store) ComponentDir() (string, error) {
	var rc bowerRC
	err := fileutil.ReadJSON(paths.BowerRCFile(s.Dir), &rc)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		return paths.DefaultComponentDir, nil
	default:
		return "", classifyRead(paths.BowerRCFile(s.Dir), err)
	}
	if rc.Directory == "" {
		return paths.DefaultComponentDir, nil
	}
	return rc.Directory, nil
}

// PluginManifest reads the plugin manifest of service from componentDir.
func (s *Store) PluginManifest(componentDir, service string) (*PluginManifest, error) {
	path := paths.PluginManifest(s.Dir, componentDir, service)
	var m PluginManifest
	if err := fileutil.ReadJSON(path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.E(errors.KindManifestNotFound, errContext,
				"No plugin manifest found for the service \""+service+"\"",
				errors.Wrap(errors.ErrNotFound, path))
		}
		return nil, classifyRead(path, err)
	}
	return &m, nil
}

func classifyRead(path string, err error) error {
	var syntaxErr *fileutil.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return errors.E(errors.KindConfigParse, errContext, "Invalid JSON in "+path, err)
	case errors.Is(err, os.ErrNotExist):
		return errors.E(errors.KindConfigRead, errContext, "Unable to read "+path,
			errors.Wrap(errors.ErrNotFound, path))
	default:
		return errors.E(errors.KindConfigRead, errContext, "Unable to read "+path, err)
	}
}
