// Package resources provides the fixed files staged into every new project.
package resources

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/systemstart/djscaffold/pkg/api"
)

//go:embed bundle/Dockerfile bundle/docker-compose.yml bundle/requirements.txt bundle/settings.py bundle/.dockerignore
var embedded embed.FS

const embeddedOrigin = "embedded"

// ErrMissingResource is returned when a required bundled file is absent.
var ErrMissingResource = errors.New("missing bundled resource")

// Bundle is a read-only set of files staged into new projects.
type Bundle struct {
	fsys   fs.FS
	cfg    api.ResourcesConfig
	origin string
}

// Open returns the bundle described by cfg and checks that every required
// resource is present. An empty cfg.Dir selects the embedded bundle.
func Open(cfg api.ResourcesConfig) (*Bundle, error) {
	b, err := open(cfg)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func open(cfg api.ResourcesConfig) (*Bundle, error) {
	if cfg.Dir == "" {
		sub, err := fs.Sub(embedded, "bundle")
		if err != nil {
			return nil, fmt.Errorf("opening embedded resources: %w", err)
		}
		return &Bundle{fsys: sub, cfg: cfg, origin: embeddedOrigin}, nil
	}

	st, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("checking resource directory: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("resource directory %s is not a directory", cfg.Dir)
	}
	return &Bundle{fsys: os.DirFS(cfg.Dir), cfg: cfg, origin: cfg.Dir}, nil
}

// Validate checks that the dockerfile, compose, requirements and settings
// resources exist as regular files.
func (b *Bundle) Validate() error {
	var missing []string
	for _, name := range b.Required() {
		if !fs.ValidPath(name) {
			return fmt.Errorf("resource path %q must be a relative slash-separated path", name)
		}
		info, err := fs.Stat(b.fsys, name)
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w in %s: %s", ErrMissingResource, b.origin, strings.Join(missing, ", "))
	}
	return nil
}

// Required lists the resources every project needs.
func (b *Bundle) Required() []string {
	return []string{b.cfg.Dockerfile, b.cfg.Compose, b.cfg.Requirements, b.cfg.Settings}
}

// Dockerfile, Compose, Requirements and Settings return the bundle path of
// each required resource.
func (b *Bundle) Dockerfile() string   { return b.cfg.Dockerfile }
func (b *Bundle) Compose() string      { return b.cfg.Compose }
func (b *Bundle) Requirements() string { return b.cfg.Requirements }
func (b *Bundle) Settings() string     { return b.cfg.Settings }

// Origin names where the bundle was loaded from.
func (b *Bundle) Origin() string { return b.origin }

// Open opens a bundled file for reading.
func (b *Bundle) Open(name string) (fs.File, error) {
	return b.fsys.Open(name)
}

// Extra expands the configured extra patterns to a sorted, de-duplicated list of files.
func (b *Bundle) Extra() ([]string, error) {
	var result []string
	for _, pattern := range b.cfg.Extra {
		matches, err := doublestar.Glob(b.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := fs.Stat(b.fsys, m)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", m, err)
			}
			if info.IsDir() || slices.Contains(b.Required(), m) {
				continue
			}
			result = append(result, m)
		}
	}
	slices.Sort(result)
	return slices.Compact(result), nil
}
