// Package service adds and removes ionic services: a bower package named
// ionic-service-<name> plus the native plugins listed in its
// ionic-plugins.json.
package service

import (
	"context"
	"fmt"

	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/logging"
	"github.com/thoreinstein/ionx/internal/project"
)

const errContext = "service"

// Bower fetches and releases service packages.
type Bower interface {
	Check(errCtx string) error
	Link(ctx context.Context, service string) error
	Unlink(ctx context.Context, service string) error
}

// Plugins installs and removes native plugins.
type Plugins interface {
	AddPlugin(ctx context.Context, uri string) error
	RemovePlugin(ctx context.Context, id string) error
}

// Store is the project file access the flows need.
type Store interface {
	LoadOrDefault() (*project.Descriptor, error)
	AddService(name string) error
	RemoveService(name string) error
	ComponentDir() (string, error)
	PluginManifest(componentDir, service string) (*project.PluginManifest, error)
}

// Manager runs the service add and remove flows.
type Manager struct {
	bower   Bower
	plugins Plugins
	store   Store
}

// NewManager returns a Manager.
func NewManager(bower Bower, plugins Plugins, store Store) *Manager {
	return &Manager{bower: bower, plugins: plugins, store: store}
}

// Add links the service package, records it in ionic.project and installs
// every plugin its manifest lists. The first failure stops the flow.
func (m *Manager) Add(ctx context.Context, name string) error {
	logger := logging.FromContext(ctx)

	if name == "" {
		return errors.ErrMissingName
	}
	if err := m.bower.Check(errContext); err != nil {
		return err
	}

	if err := m.bower.Link(ctx, name); err != nil {
		return err
	}

	if err := m.store.AddService(name); err != nil {
		return errors.E(kindOr(err, errors.KindConfigWrite), errContext,
			"Failed to update the ionic.project settings for the service", err)
	}

	manifest, err := m.manifest(name)
	if err != nil {
		return err
	}

	logger.Info("Checking for any plugins required by service package", "service", name)
	for _, p := range manifest.Plugins {
		logger.Info("Installing cordova plugin - "+p.Name, "id", p.ID, "uri", p.URI)
		if err := m.plugins.AddPlugin(ctx, p.URI); err != nil {
			return errors.E(errors.KindExternalCommand, errContext,
				fmt.Sprintf("Failed to find the plugin %q.", p.Name), err)
		}
	}

	logger.Info("service add completed", "service", name)
	return nil
}

// Remove unlinks the service package and removes its plugins. The manifest is
// read first so the plugin list survives the unlink. Later steps still run
// when earlier ones fail; all failures are returned together.
func (m *Manager) Remove(ctx context.Context, name string) error {
	logger := logging.FromContext(ctx)

	if name == "" {
		return errors.ErrMissingName
	}
	if err := m.bower.Check(errContext); err != nil {
		return err
	}

	manifest, err := m.manifest(name)
	if err != nil {
		return err
	}

	var errs []error
	if err := m.bower.Unlink(ctx, name); err != nil {
		logger.Warn("unlink failed", "service", name, "error", err)
		errs = append(errs, err)
	}

	for _, p := range manifest.Plugins {
		logger.Info("Uninstalling cordova plugin - "+p.Name, "id", p.ID)
		if err := m.plugins.RemovePlugin(ctx, p.ID); err != nil {
			logger.Warn("plugin removal failed", "plugin", p.ID, "error", err)
			errs = append(errs, errors.E(errors.KindExternalCommand, errContext,
				fmt.Sprintf("Failed to find the plugin to remove %q.", p.Name), err))
		}
	}

	if err := m.store.RemoveService(name); err != nil {
		errs = append(errs, err)
	}

	switch len(errs) {
	case 0:
		logger.Info("service remove completed", "service", name)
		return nil
	case 1:
		return errs[0]
	default:
		return errors.E(errors.KindExternalCommand, errContext,
			fmt.Sprintf("%d steps failed while removing the service %q", len(errs), name),
			errors.Join(errs...))
	}
}

// List returns the services recorded in ionic.project.
func (m *Manager) List() ([]string, error) {
	d, err := m.store.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(d.Services))
	for _, s := range d.Services {
		names = append(names, s.Name)
	}
	return names, nil
}

func (m *Manager) manifest(name string) (*project.PluginManifest, error) {
	dir, err := m.store.ComponentDir()
	if err != nil {
		return nil, err
	}
	return m.store.PluginManifest(dir, name)
}

func kindOr(err error, fallback errors.Kind) errors.Kind {
	if k := errors.KindOf(err); k != errors.KindUnknown {
		return k
	}
	return fallback
}
