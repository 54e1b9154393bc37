// Package phonemizer defines the per-language engine capability and the
// registry that builds engines lazily and keeps them for its lifetime.
package phonemizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"polyphon/model"
)

// Phonemizer turns text of one language into phonemes.
type Phonemizer interface {
	Phonemize(ctx context.Context, text string) (string, error)
}

// Func adapts a function to the Phonemizer interface.
type Func func(ctx context.Context, text string) (string, error)

func (f Func) Phonemize(ctx context.Context, text string) (string, error) { return f(ctx, text) }

// Factory builds an engine. workDir is private to the owning registry and
// may be used for on-disk model assets.
type Factory func(ctx context.Context, workDir string) (Phonemizer, error)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("phonemizer: registry closed")

type entry struct {
	engine Phonemizer
	err    error
}

// Registry maps language codes to engines. Each engine is constructed at
// most once, on first request; a failed construction is remembered too.
// Registry is safe for concurrent use.
type Registry struct {
	factories map[string]Factory
	workRoot  string
	log       *slog.Logger

	mu      sync.Mutex
	cache   map[string]entry
	workDir string
	closed  bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithWorkRoot sets the directory under which the registry creates its
// private working directory. Empty means os.TempDir().
func WithWorkRoot(dir string) Option {
	return func(r *Registry) { r.workRoot = dir }
}

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// NewRegistry returns a registry over a fixed dispatch table. Sentinel
// language tags are dropped from the table.
func NewRegistry(factories map[string]Factory, opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory, len(factories)),
		cache:     make(map[string]entry),
		log:       slog.Default(),
	}
	for lang, f := range factories {
		if model.IsSentinel(lang) || f == nil {
			continue
		}
		r.factories[lang] = f
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Languages returns the sorted language codes of the dispatch table.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.factories))
	for lang := range r.factories {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether lang has a factory.
func (r *Registry) Supports(lang string) bool {
	_, ok := r.factories[lang]
	return ok
}

// Get returns the engine for lang. ok is false when no engine is registered
// for lang; that is not an error.
func (r *Registry) Get(ctx context.Context, lang string) (Phonemizer, bool, error) {
	f, ok := r.factories[lang]
	if !ok {
		return nil, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false, ErrClosed
	}
	if e, ok := r.cache[lang]; ok {
		return e.engine, e.err == nil, e.err
	}

	dir, err := r.ensureWorkDir()
	if err != nil {
		return nil, false, err
	}
	r.log.Debug("constructing phonemizer", slog.String("lang", lang))
	engine, err := f(ctx, dir)
	if err != nil {
		err = fmt.Errorf("phonemizer: construct %s: %w", lang, err)
	} else if engine == nil {
		err = fmt.Errorf("phonemizer: construct %s: factory returned nil", lang)
	}
	r.cache[lang] = entry{engine: engine, err: err}
	if err != nil {
		return nil, false, err
	}
	return engine, true, nil
}

func (r *Registry) ensureWorkDir() (string, error) {
	if r.workDir != "" {
		return r.workDir, nil
	}
	root := r.workRoot
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return "", fmt.Errorf("phonemizer: work root: %w", err)
		}
	}
	dir, err := os.MkdirTemp(root, "polyphon-")
	if err != nil {
		return "", fmt.Errorf("phonemizer: work dir: %w", err)
	}
	r.workDir = dir
	return dir, nil
}

// Close releases every constructed engine that implements io.Closer and
// removes the working directory. The registry cannot be used afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for lang, e := range r.cache {
		if c, ok := e.engine.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("phonemizer: close %s: %w", lang, err))
			}
		}
	}
	r.cache = nil
	if r.workDir != "" {
		if err := os.RemoveAll(r.workDir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
