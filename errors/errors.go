// The errors package collects warnings produced while decoding and encoding
// instance trees. Codecs accumulate non-fatal problems into an Errors value
// and return it alongside the usual error result.
package errors

import (
	"errors"
	"strings"
)

// New returns an error with the given message.
func New(text string) error {
	return errors.New(text)
}

// Errors accumulates a number of errors into a single error value.
type Errors []error

// Error formats the accumulated errors. A single error produces its message
// unchanged. Several errors produce one indented line per error, with nested
// lines indented further.
func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	}
	var s strings.Builder
	s.WriteString("multiple errors:")
	for _, err := range errs {
		s.WriteString("\n\t")
		s.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n\t"))
	}
	return s.String()
}

// Unwrap returns the accumulated errors.
func (errs Errors) Unwrap() []error {
	return errs
}

// Append adds each non-nil err to errs, returning the extended list.
func (errs Errors) Append(err ...error) Errors {
	for _, e := range err {
		if e != nil {
			errs = append(errs, e)
		}
	}
	return errs
}

// Return converts errs to a value suitable as a function result, where an
// empty list indicates no error at all.
func (errs Errors) Return() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Union merges any number of errors into one. Arguments that are themselves
// Errors are flattened. Returns nil if every argument is nil or empty.
func Union(errs ...error) error {
	var merged Errors
	for _, err := range errs {
		switch err := err.(type) {
		case nil:
		case Errors:
			merged = merged.Append(err...)
		default:
			merged = append(merged, err)
		}
	}
	return merged.Return()
}
