package properties

import (
	"fmt"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

var _ Resolver = (*DocumentResolver)(nil)

// DocumentResolver resolves properties of standalone documents read without a
// session.
type DocumentResolver struct {
	Configurations types.ConfigurationManager
	Generic        types.ModelPropertyStore
	Scoped         types.ConfigurationPropertyStore
}

// DocumentProvider is satisfied by providers that serve all three standalone
// capabilities.
type DocumentProvider interface {
	types.ConfigurationManager
	types.ModelPropertyStore
	GetConfigurationProperty(c types.ConfigurationHandle, name string) (string, types.ValueType, bool, error)
}

// NewDocumentResolver returns a DocumentResolver wired to a single provider.
func NewDocumentResolver(p DocumentProvider) *DocumentResolver {
	return &DocumentResolver{
		Configurations: p,
		Generic:        p,
		Scoped:         scopedFunc(p.GetConfigurationProperty),
	}
}

// Resolve implements Resolver.
func (r *DocumentResolver) Resolve(propertyName string, model types.Model, configuration string) (string, bool, error) {
	if err := checkQuery(propertyName, model); err != nil {
		return "", false, err
	}

	if configuration == "" {
		v, _, found, err := r.Generic.GetProperty(model, propertyName)
		if err != nil {
			return "", false, fmt.Errorf("reading %q from %s: %w", propertyName, model.Name(), err)
		}
		return v, found, nil
	}

	cfg, err := r.Configurations.FindConfiguration(model, configuration)
	if err != nil {
		return "", false, fmt.Errorf("finding configuration %q in %s: %w", configuration, model.Name(), err)
	}
	if cfg == nil {
		return "", false, configurationNotFound(model, configuration)
	}

	v, _, found, err := r.Scoped.GetProperty(cfg, propertyName)
	if err != nil {
		return "", false, fmt.Errorf("reading %q from %s[%s]: %w", propertyName, model.Name(), configuration, err)
	}
	return v, found, nil
}

// scopedFunc adapts a method value to types.ConfigurationPropertyStore.
type scopedFunc func(c types.ConfigurationHandle, name string) (string, types.ValueType, bool, error)

func (f scopedFunc) GetProperty(c types.ConfigurationHandle, name string) (string, types.ValueType, bool, error) {
	return f(c, name)
}
