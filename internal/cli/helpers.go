package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mesh-intelligence/swprops/internal/paths"
	"github.com/mesh-intelligence/swprops/internal/session"
	"github.com/mesh-intelligence/swprops/internal/sqlite"
	"github.com/mesh-intelligence/swprops/pkg/properties"
	"github.com/mesh-intelligence/swprops/pkg/types"
)

// attachLibrary resolves the data directory and attaches the document
// library. The caller must Detach the returned backend.
func (o *rootOptions) attachLibrary(logger *slog.Logger) (*sqlite.Backend, error) {
	dataDir, err := paths.ResolveDataDir(o.dataDir, o.settings.DataDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := types.Config{Backend: o.settings.Backend, DataDir: dataDir}
	if err := cfg.Validate(); err != nil {
		return nil, userError(fmt.Errorf("backend %q: %w", cfg.Backend, err))
	}

	lib := sqlite.NewBackend(logger)
	if err := lib.Attach(cfg); err != nil {
		return nil, sysError(fmt.Errorf("attach library: %w", err))
	}
	return lib, nil
}

// modelAccess is everything a command needs to read one model, whichever
// backend reached it.
type modelAccess struct {
	model    types.Model
	children types.ComponentProvider
	roots    types.RootProvider
	resolver properties.Resolver
}

// openModel opens the named document through the configured backend.
func (o *rootOptions) openModel(lib *sqlite.Backend, name string, logger *slog.Logger) (*modelAccess, error) {
	switch o.settings.Backend {
	case types.BackendSession:
		s := session.New(lib, logger)
		doc, err := s.Open(name)
		if err != nil {
			return nil, userError(err)
		}
		return &modelAccess{
			model:    doc,
			children: s,
			roots:    s,
			resolver: properties.NewSessionResolver(s),
		}, nil
	default:
		doc, err := lib.OpenDocument(name)
		if err != nil {
			return nil, userError(err)
		}
		return &modelAccess{
			model:    doc,
			children: lib,
			roots:    lib,
			resolver: properties.NewDocumentResolver(lib),
		}, nil
	}
}

// referencing is implemented by component handles that know which model and
// configuration they show.
type referencing interface {
	ReferencedDocument() string
	ReferencedConfiguration() string
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
