// Package schema provides the core field/schema domain entities
// following Clean Architecture principles with zero external dependencies.
package schema

// FieldType enumerates the value types a field may carry.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
	TypeArray   FieldType = "array"
	TypeDate    FieldType = "date"
)

// IsValid reports whether t is one of the enumerated field types.
func (t FieldType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeObject, TypeArray, TypeDate:
		return true
	}
	return false
}

// Field describes one named, typed attribute of a record.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Description string    `json:"description,omitempty"`
}

// Validate ensures field integrity.
func (f Field) Validate() error {
	if f.Name == "" {
		return ErrEmptyFieldName
	}
	if !f.Type.IsValid() {
		return ErrInvalidFieldType
	}
	return nil
}

// Schema is an ordered sequence of fields. Order is display-relevant but
// carries no semantics; field names are the only join key between schemas.
type Schema []Field

// Has reports whether the schema contains a field with the given name.
func (s Schema) Has(name string) bool {
	for _, f := range s {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Field returns the field with the given name, if present.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	if len(s) == 0 {
		return nil
	}
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Clone returns an independent copy of the schema.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	copy(out, s)
	return out
}

// Equal reports whether two schemas have identical fields in identical order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Validate ensures every field is valid and names are unique.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return ErrDuplicateField
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Merge concatenates the given schemas, de-duplicated by field name.
// A later schema wins on a name collision: the field keeps its first
// position but takes the later definition, which keeps the result
// deterministic when several upstreams produce the same field.
func Merge(schemas ...Schema) Schema {
	var out Schema
	index := make(map[string]int)
	for _, s := range schemas {
		for _, f := range s {
			if i, ok := index[f.Name]; ok {
				out[i] = f
				continue
			}
			index[f.Name] = len(out)
			out = append(out, f)
		}
	}
	return out
}
