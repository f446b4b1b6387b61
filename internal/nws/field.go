package nws

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Field is a JSON member that remembers whether it was present, null, or set.
// Wrong JSON types fail decoding with ErrWrongType instead of silently
// collapsing to a zero value.
type Field[T any] struct {
	value   T
	present bool
	null    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if string(data) == "null" {
		f.null = true
		return nil
	}
	return json.Unmarshal(data, &f.value)
}

// Get returns the value and whether it is usable (present and not null).
func (f Field[T]) Get() (T, bool) {
	return f.value, f.present && !f.null
}

// Present reports whether the member appeared in the document at all.
func (f Field[T]) Present() bool { return f.present }

// IsNull reports whether the member appeared with a JSON null.
func (f Field[T]) IsNull() bool { return f.null }

// Or returns the value, or def when the field is absent or null.
func (f Field[T]) Or(def T) T {
	if v, ok := f.Get(); ok {
		return v
	}
	return def
}

// Require returns the value or an ErrMissingField naming path.
func (f Field[T]) Require(path string) (T, error) {
	v, ok := f.Get()
	if !ok {
		var zero T
		if f.IsNull() {
			return zero, fmt.Errorf("%w: %s is null", ErrMissingField, path)
		}
		return zero, fmt.Errorf("%w: %s", ErrMissingField, path)
	}
	return v, nil
}

// decode parses body into v, separating syntax errors from type mismatches.
func decode(body []byte, v any) error {
	err := json.Unmarshal(body, v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "(document)"
		}
		return fmt.Errorf("%w: %s: got JSON %s, want %s", ErrWrongType, field, typeErr.Value, typeErr.Type)
	}
	return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
}
