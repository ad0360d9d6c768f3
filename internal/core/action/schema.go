package action

import "fmt"

// FieldKind enumerates the value kinds a schema field can require.
type FieldKind uint8

const (
	KindAny FieldKind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindList
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "any"
	}
}

// FieldSchema describes one payload field: its kind, whether it is required,
// and optional constraints (enum for strings, min/max for numbers).
type FieldSchema struct {
	Name     string
	Kind     FieldKind
	Required bool
	Enum     []string
	Min      *float64
	Max      *float64
}

// Schema is the payload contract of an action. Unknown payload fields are
// permitted; only declared fields are checked.
type Schema struct {
	Fields []FieldSchema
}

// Field is a convenience constructor for a FieldSchema.
func Field(name string, kind FieldKind, required bool) FieldSchema {
	return FieldSchema{Name: name, Kind: kind, Required: required}
}

// WithEnum restricts a string field to a fixed set of values.
func (f FieldSchema) WithEnum(values ...string) FieldSchema {
	f.Enum = values
	return f
}

// WithRange restricts a number field to [min, max].
func (f FieldSchema) WithRange(min, max float64) FieldSchema {
	f.Min = &min
	f.Max = &max
	return f
}

// NewSchema builds a Schema from field descriptors.
func NewSchema(fields ...FieldSchema) Schema {
	return Schema{Fields: fields}
}

// Validate checks the payload against the schema. The returned error, if any,
// is a *ValidationError naming the first violating field.
func (s Schema) Validate(actionType string, p Payload) error {
	for _, f := range s.Fields {
		raw, present := p[f.Name]
		if !present {
			if f.Required {
				return &ValidationError{Action: actionType, Field: f.Name, Reason: "is required"}
			}
			continue
		}
		if err := f.check(actionType, raw); err != nil {
			return err
		}
	}
	return nil
}

func (f FieldSchema) check(actionType string, raw any) error {
	switch f.Kind {
	case KindString:
		v, ok := raw.(string)
		if !ok {
			return f.kindError(actionType, raw)
		}
		if len(f.Enum) > 0 {
			for _, allowed := range f.Enum {
				if v == allowed {
					return nil
				}
			}
			return &ValidationError{
				Action: actionType,
				Field:  f.Name,
				Reason: fmt.Sprintf("must be one of %v, got %q", f.Enum, v),
			}
		}
	case KindNumber:
		v, ok := asNumber(raw)
		if !ok {
			return f.kindError(actionType, raw)
		}
		if f.Min != nil && v < *f.Min {
			return &ValidationError{
				Action: actionType,
				Field:  f.Name,
				Reason: fmt.Sprintf("must be >= %v, got %v", *f.Min, v),
			}
		}
		if f.Max != nil && v > *f.Max {
			return &ValidationError{
				Action: actionType,
				Field:  f.Name,
				Reason: fmt.Sprintf("must be <= %v, got %v", *f.Max, v),
			}
		}
	case KindBool:
		if _, ok := raw.(bool); !ok {
			return f.kindError(actionType, raw)
		}
	case KindObject:
		if _, ok := raw.(map[string]any); !ok {
			return f.kindError(actionType, raw)
		}
	case KindList:
		if _, ok := raw.([]any); !ok {
			return f.kindError(actionType, raw)
		}
	}
	return nil
}

func (f FieldSchema) kindError(actionType string, raw any) error {
	return &ValidationError{
		Action: actionType,
		Field:  f.Name,
		Reason: fmt.Sprintf("must be a %s, got %T", f.Kind, raw),
	}
}

func asNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
