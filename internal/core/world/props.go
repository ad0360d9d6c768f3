package world

// Props is an open property bag holding per-entity component data.
// Values are restricted by convention to the JSON-compatible closed set:
// float64 | string | bool | []any | map[string]any. The typed accessors
// below coerce numeric variants so handlers can pattern-match safely.
type Props map[string]any

// Set stores a value under key, allocating the bag on first use.
// Integer values are normalized to float64 so a round-trip through JSON
// is not observable.
func (p *Props) Set(key string, val any) {
	if *p == nil {
		*p = make(Props)
	}
	(*p)[key] = normalize(val)
}

// Delete removes a key; absent keys are a no-op.
func (p Props) Delete(key string) {
	delete(p, key)
}

// Has reports whether a key is present.
func (p Props) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Float returns the numeric value under key, if present and numeric.
func (p Props) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// FloatOr returns the numeric value under key, or def when absent.
func (p Props) FloatOr(key string, def float64) float64 {
	if v, ok := p.Float(key); ok {
		return v
	}
	return def
}

// String returns the string value under key, if present.
func (p Props) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// Bool returns the bool value under key, if present.
func (p Props) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}

// Map returns the nested map value under key, if present.
func (p Props) Map(key string) (map[string]any, bool) {
	v, ok := p[key].(map[string]any)
	return v, ok
}

// List returns the list value under key, if present.
func (p Props) List(key string) ([]any, bool) {
	v, ok := p[key].([]any)
	return v, ok
}

func normalize(val any) any {
	switch v := val.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return val
	}
}
