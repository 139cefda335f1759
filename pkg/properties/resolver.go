// Package properties resolves custom properties on a model, optionally
// scoped to a configuration.
//
// Two resolvers share one contract. SessionResolver reads through a live
// session, where each configuration's property store is one indexed access
// away. DocumentResolver reads standalone documents, where a configuration
// must be found first and its store queried second. The caller picks the
// resolver matching the kind of model handle it holds.
//
// Both resolvers return the resolved form of a value, with references to
// other properties expanded. Raw values are never returned.
package properties

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

// Resolver resolves propertyName on model. An empty configuration reads the
// generic (model-level) store. found is false with a nil error when the store
// exists but has no such property. A configuration that does not exist is
// reported as types.ErrConfigurationNotFound.
type Resolver interface {
	Resolve(propertyName string, model types.Model, configuration string) (value string, found bool, err error)
}

// Query is the input of one resolution.
type Query struct {
	PropertyName  string
	Model         types.Model
	Configuration string
}

// Result is the output of one resolution.
type Result struct {
	Value string
	Found bool
}

// ResolveQuery runs q through r.
func ResolveQuery(r Resolver, q Query) (Result, error) {
	v, found, err := r.Resolve(q.PropertyName, q.Model, q.Configuration)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Found: found}, nil
}

// IsConfigurationNotFound reports whether err means the configuration name
// was invalid, as opposed to the property being unset.
func IsConfigurationNotFound(err error) bool {
	return errors.Is(err, types.ErrConfigurationNotFound)
}

func checkQuery(propertyName string, model types.Model) error {
	if model == nil {
		return types.ErrNilModel
	}
	if propertyName == "" {
		return fmt.Errorf("%w: property name is empty", types.ErrInvalidName)
	}
	return nil
}

func configurationNotFound(model types.Model, configuration string) error {
	return fmt.Errorf("%w: %q in %s", types.ErrConfigurationNotFound, configuration, model.Name())
}
