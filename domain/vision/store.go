package vision

import (
	"log/slog"
	"path/filepath"
	"sync"
)

// Template file names looked up in the template directory.
const (
	SplashTemplate      = "splash.png"
	NavCircleTemplate   = "circle_nav.png"
	CatchCircleTemplate = "circle_game.png"
)

// Store loads templates from a directory by name and keeps them for reuse.
// Load failures are not cached: each query retries and logs the failure.
type Store struct {
	dir    string
	logger *slog.Logger
	load   func(path string) (*Template, error)

	mu     sync.Mutex
	loaded map[string]*Template
}

// NewStore returns a Store reading from dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger, load: LoadTemplate, loaded: make(map[string]*Template)}
}

// Put registers an already-built template under name.
func (s *Store) Put(name string, t *Template) {
	s.mu.Lock()
	s.loaded[name] = t
	s.mu.Unlock()
}

// Template returns the named template, loading it on first use. A missing
// or undecodable file is logged and reported as absent.
func (s *Store) Template(name string) (*Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.loaded[name]; ok {
		return t, true
	}
	path := filepath.Join(s.dir, name)
	t, err := s.load(path)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("template unavailable", "name", name, "path", path, "error", err)
		}
		return nil, false
	}
	s.loaded[name] = t
	if s.logger != nil {
		s.logger.Debug("template loaded", "name", name, "size", t.Size().String(), "masked", t.Masked())
	}
	return t, true
}
