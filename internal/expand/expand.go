// Package expand turns raw custom property values into their resolved form.
//
// A raw value may reference other properties:
//
//	$PRP:"Name"       property of the same scope, then the generic scope
//	$PRPSHEET:"Name"  generic property
//
// The built-in names SW-File Name and SW-Configuration Name expand to the
// document name and the scope's configuration name. References that cannot be
// expanded are left in place and the value is reported as not fully resolved.
package expand

import (
	"regexp"
	"strings"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

// MaxDepth bounds nested reference expansion.
const MaxDepth = 8

// Built-in property names.
const (
	BuiltinFileName          = "SW-File Name"
	BuiltinConfigurationName = "SW-Configuration Name"
)

var refPattern = regexp.MustCompile(`\$(PRP|PRPSHEET):"([^"]*)"`)

// Scope is the property set a value is being resolved in.
type Scope struct {
	Document      string            // document name, for SW-File Name
	Configuration string            // "" for the generic scope
	Local         map[string]string // raw values of this scope
	Generic       map[string]string // raw values of the generic scope
}

// Value expands the raw value of property name in scope s.
func Value(s Scope, name, raw string) types.PropertyValue {
	e := expander{s: s, active: map[string]bool{scopeKey(s.Configuration, name): true}}
	resolved, ok := e.expand(raw, s.Configuration, 0)
	return types.PropertyValue{Raw: raw, Resolved: resolved, WasResolved: ok}
}

// Property looks name up in scope s and expands it. found is false when the
// scope has no such property.
func Property(s Scope, name string) (types.PropertyValue, bool) {
	raw, ok := s.Local[name]
	if !ok {
		return types.PropertyValue{}, false
	}
	return Value(s, name, raw), true
}

type expander struct {
	s      Scope
	active map[string]bool
}

func scopeKey(configuration, name string) string {
	return configuration + "\x00" + name
}

func (e *expander) expand(raw, configuration string, depth int) (string, bool) {
	if !strings.Contains(raw, "$PRP") {
		return raw, true
	}
	ok := true
	out := refPattern.ReplaceAllStringFunc(raw, func(tok string) string {
		m := refPattern.FindStringSubmatch(tok)
		v, resolved := e.reference(tok, m[1], m[2], configuration, depth)
		if !resolved {
			ok = false
		}
		return v
	})
	return out, ok
}

// reference expands one token. A token that cannot be followed is returned
// as is; a followed token whose value is only partly expanded yields that
// partial value. Either way resolved is false.
func (e *expander) reference(tok, kind, name, configuration string, depth int) (string, bool) {
	if depth >= MaxDepth {
		return tok, false
	}

	switch name {
	case BuiltinFileName:
		return e.s.Document, true
	case BuiltinConfigurationName:
		if kind == "PRPSHEET" {
			return "", true
		}
		return configuration, true
	}

	target, raw, ok := e.lookup(kind, name, configuration)
	if !ok {
		return tok, false
	}
	key := scopeKey(target, name)
	if e.active[key] {
		return tok, false
	}
	e.active[key] = true
	defer delete(e.active, key)

	return e.expand(raw, target, depth+1)
}

// lookup finds the raw value a reference points to and the scope it lives in.
func (e *expander) lookup(kind, name, configuration string) (string, string, bool) {
	if kind == "PRP" && configuration != "" {
		if raw, ok := e.s.Local[name]; ok {
			return configuration, raw, true
		}
	}
	raw, ok := e.s.generic()[name]
	return "", raw, ok
}

func (s Scope) generic() map[string]string {
	if s.Configuration == "" {
		return s.Local
	}
	return s.Generic
}
