// Package assembly flattens a component tree into the ordered list of every
// component below its root.
//
// Traversal is depth-first pre-order: each child is emitted before its own
// descendants, and siblings keep the order the provider enumerated them in.
// Callers may correlate output indexes with that sibling order.
package assembly

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

// Entry is one component of a walk with its position in the tree.
type Entry struct {
	Component types.Component
	Depth     int    // 1 for children of the root.
	ParentID  string // ComponentID of the enclosing component.
}

// Flattener walks component trees through a ComponentProvider. It keeps no
// state between calls.
type Flattener struct {
	provider types.ComponentProvider
	logger   *slog.Logger
}

// NewFlattener returns a Flattener reading children from provider. A nil
// logger uses slog.Default().
func NewFlattener(provider types.ComponentProvider, logger *slog.Logger) *Flattener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flattener{provider: provider, logger: logger}
}

// Flatten returns every descendant of root exactly once, excluding root.
// A childless or nil root yields an empty slice. Flatten never fails: an
// unusable child enumeration is logged and the node is treated as a leaf.
func (f *Flattener) Flatten(root types.Component) []types.Component {
	entries := f.Walk(root)
	out := make([]types.Component, len(entries))
	for i, e := range entries {
		out[i] = e.Component
	}
	return out
}

// Walk is Flatten with depth and parent information kept for each entry.
func (f *Flattener) Walk(root types.Component) []Entry {
	out := []Entry{}
	rootID, ok := componentID(root)
	if !ok {
		return out
	}
	w := walker{
		f:       f,
		visited: map[string]bool{rootID: true},
	}
	w.visit(root, rootID, 1, &out)
	return out
}

// FlattenModel flattens the root component of the model's active
// configuration.
func (f *Flattener) FlattenModel(roots types.RootProvider, m types.Model) ([]types.Component, error) {
	if m == nil {
		return nil, types.ErrNilModel
	}
	root, err := roots.RootComponent(m)
	if err != nil {
		return nil, fmt.Errorf("root component of %s: %w", m.Name(), err)
	}
	return f.Flatten(root), nil
}

// walker holds the per-call visited set. IDs, not handles, are tracked since
// a provider may return a fresh handle for the same node.
type walker struct {
	f       *Flattener
	visited map[string]bool
}

func (w *walker) visit(node types.Component, nodeID string, depth int, out *[]Entry) {
	children, err := w.children(node)
	if err != nil {
		w.f.logger.Warn("skipping unusable child enumeration", "component", nodeID, "error", err)
		return
	}

	for i, child := range children {
		id, ok := componentID(child)
		if !ok {
			w.f.logger.Warn("skipping nil child", "component", nodeID, "index", i)
			continue
		}
		if w.visited[id] {
			w.f.logger.Debug("component already visited", "component", id, "parent", nodeID)
			continue
		}
		w.visited[id] = true

		*out = append(*out, Entry{Component: child, Depth: depth, ParentID: nodeID})
		w.visit(child, id, depth+1, out)
	}
}

// children enumerates node, turning a provider panic into an error.
func (w *walker) children(node types.Component) (cs []types.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			cs, err = nil, fmt.Errorf("enumeration panicked: %v", r)
		}
	}()
	return w.f.provider.GetChildren(node)
}

// componentID reads the ID of c. ok is false for a nil interface and for a
// handle whose ComponentID panics, such as a typed nil pointer.
func componentID(c types.Component) (id string, ok bool) {
	if c == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			id, ok = "", false
		}
	}()
	return c.ComponentID(), true
}
