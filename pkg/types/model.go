package types

// Component is one node (part or sub-assembly instance) of an assembly.
// ComponentID identifies the node across enumerations; providers may return a
// new handle for the same node each time its parent is enumerated.
type Component interface {
	ComponentID() string
	Name() string
}

// Model is one document (part, assembly or drawing).
type Model interface {
	ModelID() string
	Name() string
}

// ConfigurationHandle is a named configuration found inside a standalone
// document.
type ConfigurationHandle interface {
	ConfigurationName() string
}

// ComponentProvider enumerates the immediate children of a component. A nil
// or empty slice means the component is a leaf. A returned error marks the
// enumeration as unusable.
type ComponentProvider interface {
	GetChildren(c Component) ([]Component, error)
}

// RootProvider returns the root component of a model's active
// configuration. The root is the assembly itself, not one of its children.
type RootProvider interface {
	RootComponent(m Model) (Component, error)
}

// PropertyStore is a configuration-scoped custom property store reached
// through a live session.
type PropertyStore interface {
	// GetResolved returns the raw and resolved forms of a property.
	// found is false when the store has no property with that name.
	GetResolved(name string) (value PropertyValue, found bool, err error)
}

// ConfigurationAccessor reaches property stores through a live session.
// An empty configuration name selects the generic (model-level) store.
// GetPropertyStore returns a nil store and a nil error when the named
// configuration does not exist.
type ConfigurationAccessor interface {
	GetPropertyStore(m Model, configuration string) (PropertyStore, error)
}

// ConfigurationManager finds configurations inside a standalone document.
// FindConfiguration returns a nil handle and a nil error when no
// configuration has that name.
type ConfigurationManager interface {
	FindConfiguration(m Model, name string) (ConfigurationHandle, error)
}

// ModelPropertyStore reads generic properties of a standalone document.
type ModelPropertyStore interface {
	GetProperty(m Model, name string) (value string, vt ValueType, found bool, err error)
}

// ConfigurationPropertyStore reads configuration-specific properties of a
// standalone document.
type ConfigurationPropertyStore interface {
	GetProperty(c ConfigurationHandle, name string) (value string, vt ValueType, found bool, err error)
}
