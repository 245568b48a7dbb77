// Package validate defines the field-level error map returned by write
// endpoints. Each failing field carries one or more user-facing
// messages; a request that produces a non-empty map commits nothing.
package validate

// Errors maps a field name to the list of problems found for it.
// It serializes directly as the body of a 400 response.
type Errors map[string][]string

// New returns an empty error map ready for Add calls.
func New() Errors { return Errors{} }

// Add appends one or more messages for a field. No-op when msgs is empty.
func (e Errors) Add(field string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	e[field] = append(e[field], msgs...)
}

// Empty reports whether no field has errors.
func (e Errors) Empty() bool { return len(e) == 0 }
