package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/swprops/internal/expand"
	"github.com/mesh-intelligence/swprops/pkg/types"
)

var (
	_ types.ComponentProvider    = (*Backend)(nil)
	_ types.RootProvider         = (*Backend)(nil)
	_ types.ConfigurationManager = (*Backend)(nil)
	_ types.ModelPropertyStore   = (*Backend)(nil)
)

// Document is the model handle of a stored document.
type Document struct {
	id                  string
	name                string
	kind                string
	activeConfiguration string
}

func (d *Document) ModelID() string { return d.id }
func (d *Document) Name() string    { return d.name }
func (d *Document) Kind() string    { return d.kind }

// ActiveConfiguration names the configuration whose tree RootComponent
// returns.
func (d *Document) ActiveConfiguration() string { return d.activeConfiguration }

// Configuration is a configuration handle returned by FindConfiguration.
type Configuration struct {
	id       string
	document *Document
	name     string
}

func (c *Configuration) ConfigurationName() string { return c.name }

// Component is a component handle. Every call to GetChildren returns new
// handles; identity is ComponentID.
type Component struct {
	id              string
	documentID      string
	configurationID string
	name            string
	refDocument     string
	refConfig       string
	root            bool
}

func (c *Component) ComponentID() string { return c.id }
func (c *Component) Name() string        { return c.name }

// ReferencedDocument names the model this component instance shows.
func (c *Component) ReferencedDocument() string { return c.refDocument }

// ReferencedConfiguration names the configuration the instance is shown in.
func (c *Component) ReferencedConfiguration() string { return c.refConfig }

func asDocument(m types.Model) (*Document, error) {
	if m == nil {
		return nil, types.ErrNilModel
	}
	d, ok := m.(*Document)
	if !ok {
		return nil, fmt.Errorf("%w: model %s", types.ErrForeignHandle, m.Name())
	}
	return d, nil
}

// RootComponent returns the root of the active configuration's tree.
func (b *Backend) RootComponent(m types.Model) (types.Component, error) {
	d, err := asDocument(m)
	if err != nil {
		return nil, err
	}

	root := &Component{id: "root:" + d.id, documentID: d.id, name: d.name, root: true}
	if d.activeConfiguration == "" {
		return root, nil
	}
	cfg, err := b.findConfiguration(d, d.activeConfiguration)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: active configuration %q of %s",
			types.ErrConfigurationNotFound, d.activeConfiguration, d.name)
	}
	root.id = "root:" + cfg.id
	root.configurationID = cfg.id
	return root, nil
}

// GetChildren returns the immediate children of c in stored order.
func (b *Backend) GetChildren(c types.Component) ([]types.Component, error) {
	if c == nil {
		return nil, nil
	}
	comp, ok := c.(*Component)
	if !ok {
		return nil, fmt.Errorf("%w: component %s", types.ErrForeignHandle, c.Name())
	}
	parent := comp.id
	if comp.root {
		parent = ""
	}

	db, release, err := b.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.Query(
		`SELECT component_id, name, referenced_document, referenced_configuration FROM components
         WHERE document_id = ? AND configuration_id = ? AND parent_id = ? ORDER BY ordinal`,
		comp.documentID, comp.configurationID, parent,
	)
	if err != nil {
		return nil, fmt.Errorf("children of %s: %w", comp.name, err)
	}
	defer rows.Close()

	var out []types.Component
	for rows.Next() {
		child := &Component{documentID: comp.documentID, configurationID: comp.configurationID}
		if err := rows.Scan(&child.id, &child.name, &child.refDocument, &child.refConfig); err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, rows.Err()
}

// FindConfiguration returns the named configuration of m, or nil when m has
// no configuration of that name.
func (b *Backend) FindConfiguration(m types.Model, name string) (types.ConfigurationHandle, error) {
	d, err := asDocument(m)
	if err != nil {
		return nil, err
	}
	cfg, err := b.findConfiguration(d, name)
	if err != nil || cfg == nil {
		// Keep a typed nil out of the interface.
		return nil, err
	}
	return cfg, nil
}

func (b *Backend) findConfiguration(d *Document, name string) (*Configuration, error) {
	db, release, err := b.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	cfg := &Configuration{document: d, name: name}
	err = db.QueryRow(
		"SELECT configuration_id FROM configurations WHERE document_id = ? AND name = ?", d.id, name,
	).Scan(&cfg.id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding configuration %q: %w", name, err)
	}
	return cfg, nil
}

// GetProperty returns the resolved value of a generic property of m.
func (b *Backend) GetProperty(m types.Model, name string) (string, types.ValueType, bool, error) {
	d, err := asDocument(m)
	if err != nil {
		return "", "", false, err
	}
	return b.getProperty(d, "", "", name)
}

// GetConfigurationProperty returns the resolved value of a property of the
// configuration c.
func (b *Backend) GetConfigurationProperty(c types.ConfigurationHandle, name string) (string, types.ValueType, bool, error) {
	if c == nil {
		return "", "", false, types.ErrConfigurationNotFound
	}
	cfg, ok := c.(*Configuration)
	if !ok {
		return "", "", false, fmt.Errorf("%w: configuration %s", types.ErrForeignHandle, c.ConfigurationName())
	}
	return b.getProperty(cfg.document, cfg.id, cfg.name, name)
}

func (b *Backend) getProperty(d *Document, cfgID, cfgName, name string) (string, types.ValueType, bool, error) {
	db, release, err := b.readDB()
	if err != nil {
		return "", "", false, err
	}
	defer release()

	local, vts, err := scopeValues(db, d.id, cfgID)
	if err != nil {
		return "", "", false, err
	}
	if _, ok := local[name]; !ok {
		return "", "", false, nil
	}

	scope := expand.Scope{Document: d.name, Configuration: cfgName, Local: local}
	if cfgID != "" {
		if scope.Generic, _, err = scopeValues(db, d.id, ""); err != nil {
			return "", "", false, err
		}
	}
	v, _ := expand.Property(scope, name)
	return v.Resolved, vts[name], true, nil
}

// scopeValues returns the raw values and type tags of one property scope.
func scopeValues(db *sql.DB, docID, cfgID string) (map[string]string, map[string]types.ValueType, error) {
	rows, err := db.Query(
		"SELECT name, value, value_type FROM properties WHERE document_id = ? AND configuration_id = ?",
		docID, cfgID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("reading properties: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	vts := make(map[string]types.ValueType)
	for rows.Next() {
		var name, value, vt string
		if err := rows.Scan(&name, &value, &vt); err != nil {
			return nil, nil, err
		}
		values[name] = value
		vts[name] = types.ParseValueType(vt)
	}
	return values, vts, rows.Err()
}
