package rakuten

// Result is the normalized outcome of one successful request.
type Result struct {
	StatusCode int
	Message    string
	// Data is a map[string]any or []any for JSON/XML responses and the raw body text for CSV.
	Data any
}

// Map returns Data as a mapping.
func (r *Result) Map() (map[string]any, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.Data.(map[string]any)
	return m, ok
}

// List returns Data as a sequence.
func (r *Result) List() ([]any, bool) {
	if r == nil {
		return nil, false
	}
	l, ok := r.Data.([]any)
	return l, ok
}

// Text returns Data when it is raw text, as produced for CSV responses.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	s, _ := r.Data.(string)
	return s
}
