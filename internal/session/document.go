package session

import (
	"fmt"

	"github.com/mesh-intelligence/swprops/internal/expand"
	"github.com/mesh-intelligence/swprops/pkg/types"
)

// Document is the model handle of an open document.
type Document struct {
	id             string
	name           string
	kind           string
	active         string
	generic        *PropertyStore
	configurations map[string]*PropertyStore
	root           *Component
}

func (d *Document) ModelID() string { return d.id }
func (d *Document) Name() string    { return d.name }
func (d *Document) Kind() string    { return d.kind }

// ActiveConfiguration names the configuration whose tree is the root.
func (d *Document) ActiveConfiguration() string { return d.active }

// Component is a node of an open document's active component tree.
type Component struct {
	id            string
	name          string
	document      string
	configuration string
	children      []*Component
}

func (c *Component) ComponentID() string { return c.id }
func (c *Component) Name() string        { return c.name }

// ReferencedDocument names the model this component instance shows.
func (c *Component) ReferencedDocument() string { return c.document }

// ReferencedConfiguration names the configuration the instance is shown in.
func (c *Component) ReferencedConfiguration() string { return c.configuration }

// PropertyStore is the custom property store of one scope.
type PropertyStore struct {
	scope      expand.Scope
	valueTypes map[string]types.ValueType
}

var _ types.PropertyStore = (*PropertyStore)(nil)

// GetResolved implements types.PropertyStore.
func (p *PropertyStore) GetResolved(name string) (types.PropertyValue, bool, error) {
	v, ok := expand.Property(p.scope, name)
	return v, ok, nil
}

// Names returns the property names of the store in no particular order.
func (p *PropertyStore) Names() []string {
	out := make([]string, 0, len(p.scope.Local))
	for n := range p.scope.Local {
		out = append(out, n)
	}
	return out
}

// ValueType returns the type tag of name, or ValueTypeUnknown.
func (p *PropertyStore) ValueType(name string) types.ValueType {
	if vt, ok := p.valueTypes[name]; ok {
		return vt
	}
	return types.ValueTypeUnknown
}

func newDocument(id string, rec *types.DocumentRecord) *Document {
	generic, genericTypes := propertyMap(rec.Properties)
	d := &Document{
		id:   id,
		name: rec.Name,
		kind: rec.Kind,
		generic: &PropertyStore{
			scope:      expand.Scope{Document: rec.Name, Local: generic},
			valueTypes: genericTypes,
		},
		configurations: make(map[string]*PropertyStore, len(rec.Configurations)),
		active:         rec.ActiveConfigurationName(),
		root:           &Component{id: id + "/root", name: rec.Name, document: rec.Name},
	}

	for _, c := range rec.Configurations {
		local, vts := propertyMap(c.Properties)
		d.configurations[c.Name] = &PropertyStore{
			scope:      expand.Scope{Document: rec.Name, Configuration: c.Name, Local: local, Generic: generic},
			valueTypes: vts,
		}
		if c.Name == d.active {
			d.root.configuration = c.Name
			d.root.children = buildComponents(d.root.id, c.Components)
		}
	}
	return d
}

func propertyMap(props []types.PropertyRecord) (map[string]string, map[string]types.ValueType) {
	values := make(map[string]string, len(props))
	vts := make(map[string]types.ValueType, len(props))
	for _, p := range props {
		values[p.Name] = p.Value
		vts[p.Name] = types.ParseValueType(string(p.Type))
	}
	return values, vts
}

// buildComponents gives each node a path ID, so the same instance name under
// different parents stays distinct.
func buildComponents(parentID string, recs []types.ComponentRecord) []*Component {
	if len(recs) == 0 {
		return nil
	}
	out := make([]*Component, len(recs))
	for i, r := range recs {
		c := &Component{
			id:            fmt.Sprintf("%s/%d:%s", parentID, i, r.Name),
			name:          r.Name,
			document:      r.Document,
			configuration: r.Configuration,
		}
		c.children = buildComponents(c.id, r.Children)
		out[i] = c
	}
	return out
}
