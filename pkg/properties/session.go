package properties

import (
	"fmt"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

var _ Resolver = (*SessionResolver)(nil)

// SessionResolver resolves properties of models open in a live session.
type SessionResolver struct {
	Accessor types.ConfigurationAccessor
}

// NewSessionResolver returns a SessionResolver reading through accessor.
func NewSessionResolver(accessor types.ConfigurationAccessor) *SessionResolver {
	return &SessionResolver{Accessor: accessor}
}

// Resolve implements Resolver.
func (r *SessionResolver) Resolve(propertyName string, model types.Model, configuration string) (string, bool, error) {
	if err := checkQuery(propertyName, model); err != nil {
		return "", false, err
	}

	store, err := r.Accessor.GetPropertyStore(model, configuration)
	if err != nil {
		return "", false, fmt.Errorf("property store of %s: %w", model.Name(), err)
	}
	if store == nil {
		return "", false, configurationNotFound(model, configuration)
	}

	v, found, err := store.GetResolved(propertyName)
	if err != nil {
		return "", false, fmt.Errorf("reading %q from %s: %w", propertyName, model.Name(), err)
	}
	if !found {
		return "", false, nil
	}
	return v.Resolved, true, nil
}
