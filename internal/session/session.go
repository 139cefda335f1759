// Package session implements the session-backed provider: documents opened
// into a live, in-process session.
//
// A Session loads document records from a Source when they are opened and
// serves them until they are closed. Each configuration's property store is
// reached in one indexed access, GetPropertyStore(model, configuration), and
// reports both raw and resolved values.
package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

// Source supplies document records to open.
type Source interface {
	LoadRecord(name string) (*types.DocumentRecord, error)
}

var (
	_ types.ConfigurationAccessor = (*Session)(nil)
	_ types.ComponentProvider     = (*Session)(nil)
	_ types.RootProvider          = (*Session)(nil)
)

// Session holds the open documents. It is safe for concurrent use; open
// documents are immutable snapshots.
type Session struct {
	mu     sync.RWMutex
	source Source
	docs   map[string]*Document
	seq    int
	logger *slog.Logger
}

// New returns an empty session reading from source. A nil logger uses
// slog.Default().
func New(source Source, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		source: source,
		docs:   make(map[string]*Document),
		logger: logger,
	}
}

// Open returns the named document, loading it from the source when it is not
// open yet.
func (s *Session) Open(name string) (*Document, error) {
	s.mu.RLock()
	d, ok := s.docs[name]
	s.mu.RUnlock()
	if ok {
		return d, nil
	}

	rec, err := s.source.LoadRecord(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[name]; ok {
		return d, nil
	}
	s.seq++
	d = newDocument(fmt.Sprintf("session-%d", s.seq), rec)
	s.docs[name] = d
	s.logger.Debug("document opened", "document", name, "model", d.id)
	return d, nil
}

// Close removes the named document from the session. Handles obtained before
// Close keep working but no longer belong to the session. Closing a document
// that is not open is a no-op.
func (s *Session) Close(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; ok {
		delete(s.docs, name)
		s.logger.Debug("document closed", "document", name)
	}
}

// Documents returns the names of the open documents in sorted order.
func (s *Session) Documents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for n := range s.docs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// document returns the session's open document behind m.
func (s *Session) document(m types.Model) (*Document, error) {
	if m == nil {
		return nil, types.ErrNilModel
	}
	d, ok := m.(*Document)
	if !ok {
		return nil, fmt.Errorf("%w: model %s", types.ErrForeignHandle, m.Name())
	}
	s.mu.RLock()
	open := s.docs[d.name] == d
	s.mu.RUnlock()
	if !open {
		return nil, fmt.Errorf("%w: %s is not open in this session", types.ErrDocumentNotFound, d.name)
	}
	return d, nil
}

// GetPropertyStore returns the store of the named configuration of m, or the
// generic store when configuration is empty. The store is nil when m has no
// such configuration.
func (s *Session) GetPropertyStore(m types.Model, configuration string) (types.PropertyStore, error) {
	d, err := s.document(m)
	if err != nil {
		return nil, err
	}
	if configuration == "" {
		return d.generic, nil
	}
	store, ok := d.configurations[configuration]
	if !ok {
		s.logger.Debug("no property store for configuration", "document", d.name, "configuration", configuration)
		return nil, nil
	}
	return store, nil
}

// RootComponent returns the root of the active configuration's tree.
func (s *Session) RootComponent(m types.Model) (types.Component, error) {
	d, err := s.document(m)
	if err != nil {
		return nil, err
	}
	return d.root, nil
}

// GetChildren returns the children of c.
func (s *Session) GetChildren(c types.Component) ([]types.Component, error) {
	if c == nil {
		return nil, nil
	}
	comp, ok := c.(*Component)
	if !ok {
		return nil, fmt.Errorf("%w: component %s", types.ErrForeignHandle, c.Name())
	}
	if len(comp.children) == 0 {
		return nil, nil
	}
	out := make([]types.Component, len(comp.children))
	for i, child := range comp.children {
		out[i] = child
	}
	return out, nil
}
