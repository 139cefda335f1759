package types

import "fmt"

// Document kinds.
const (
	KindPart     = "part"
	KindAssembly = "assembly"
	KindDrawing  = "drawing"
)

// DocumentRecord is the stored shape of one document in the library. It is
// the line format of documents.jsonl and the input format of import.
type DocumentRecord struct {
	Name                string                `json:"name"`
	Kind                string                `json:"kind"`
	ActiveConfiguration string                `json:"active_configuration,omitempty"`
	Properties          []PropertyRecord      `json:"properties,omitempty"`
	Configurations      []ConfigurationRecord `json:"configurations,omitempty"`
}

// ConfigurationRecord is a named configuration with its own properties and,
// for assemblies, its own component tree.
type ConfigurationRecord struct {
	Name       string            `json:"name"`
	Properties []PropertyRecord  `json:"properties,omitempty"`
	Components []ComponentRecord `json:"components,omitempty"`
}

// ComponentRecord is a component instance. Document and Configuration name
// the referenced model and the configuration it is shown in.
type ComponentRecord struct {
	Name          string            `json:"name"`
	Document      string            `json:"document,omitempty"`
	Configuration string            `json:"configuration,omitempty"`
	Children      []ComponentRecord `json:"children,omitempty"`
}

// PropertyRecord is a custom property as entered. Value may hold references
// such as $PRP:"Material".
type PropertyRecord struct {
	Name  string    `json:"name"`
	Value string    `json:"value"`
	Type  ValueType `json:"type,omitempty"`
}

var validKinds = map[string]bool{
	KindPart:     true,
	KindAssembly: true,
	KindDrawing:  true,
}

// Validate checks the record and returns ErrInvalidDocument wrapped with the
// first problem found.
func (d *DocumentRecord) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidDocument)
	}
	if !validKinds[d.Kind] {
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidDocument, d.Name, d.Kind)
	}
	if err := validateProperties(d.Name, "", d.Properties); err != nil {
		return err
	}

	seen := make(map[string]bool, len(d.Configurations))
	for _, c := range d.Configurations {
		if c.Name == "" {
			return fmt.Errorf("%w: %s: configuration name is empty", ErrInvalidDocument, d.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %s: duplicate configuration %q", ErrInvalidDocument, d.Name, c.Name)
		}
		seen[c.Name] = true
		if err := validateProperties(d.Name, c.Name, c.Properties); err != nil {
			return err
		}
		if err := validateComponents(d.Name, c.Name, c.Components); err != nil {
			return err
		}
	}

	if d.ActiveConfiguration != "" && !seen[d.ActiveConfiguration] {
		return fmt.Errorf("%w: %s: active configuration %q is not defined",
			ErrInvalidDocument, d.Name, d.ActiveConfiguration)
	}
	return nil
}

// ActiveConfigurationName returns the configuration whose component tree is
// the document's root: the declared active configuration, or the first one.
// Returns "" when the document has no configurations.
func (d *DocumentRecord) ActiveConfigurationName() string {
	if d.ActiveConfiguration != "" {
		return d.ActiveConfiguration
	}
	if len(d.Configurations) > 0 {
		return d.Configurations[0].Name
	}
	return ""
}

func validateProperties(doc, cfg string, props []PropertyRecord) error {
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		if p.Name == "" {
			return fmt.Errorf("%w: %s[%s]: property name is empty", ErrInvalidDocument, doc, cfg)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s[%s]: duplicate property %q", ErrInvalidDocument, doc, cfg, p.Name)
		}
		seen[p.Name] = true
		if p.Type != "" && !IsValidValueType(p.Type) {
			return fmt.Errorf("%w: %s[%s]: property %q has unknown type %q",
				ErrInvalidDocument, doc, cfg, p.Name, p.Type)
		}
	}
	return nil
}

func validateComponents(doc, cfg string, comps []ComponentRecord) error {
	for _, c := range comps {
		if c.Name == "" {
			return fmt.Errorf("%w: %s[%s]: component name is empty", ErrInvalidDocument, doc, cfg)
		}
		if err := validateComponents(doc, cfg, c.Children); err != nil {
			return err
		}
	}
	return nil
}
