package types

// ValueType is the type tag stored with a custom property.
type ValueType string

// Property value types.
const (
	ValueTypeUnknown ValueType = "unknown"
	ValueTypeText    ValueType = "text"
	ValueTypeDate    ValueType = "date"
	ValueTypeNumber  ValueType = "number"
	ValueTypeYesNo   ValueType = "yesno"
)

// validValueTypes is the set of recognized property value types.
var validValueTypes = map[ValueType]bool{
	ValueTypeUnknown: true,
	ValueTypeText:    true,
	ValueTypeDate:    true,
	ValueTypeNumber:  true,
	ValueTypeYesNo:   true,
}

// IsValidValueType reports whether vt is a recognized value type.
func IsValidValueType(vt ValueType) bool {
	return validValueTypes[vt]
}

// ParseValueType maps a stored tag to a ValueType. An empty tag is text;
// anything unrecognized is ValueTypeUnknown.
func ParseValueType(s string) ValueType {
	if s == "" {
		return ValueTypeText
	}
	vt := ValueType(s)
	if !validValueTypes[vt] {
		return ValueTypeUnknown
	}
	return vt
}

// PropertyValue carries both forms of a property value. Raw is the text as
// entered, which may contain references to other properties. Resolved has
// every reference expanded. WasResolved is false when at least one reference
// could not be expanded and was left literal in Resolved.
type PropertyValue struct {
	Raw         string
	Resolved    string
	WasResolved bool
}
