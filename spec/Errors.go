package spec

import (
	"fmt"
	"strings"
)

// ParseError is returned when a document is not well-formed YAML or JSON
type ParseError struct {
	Line int // 1-based, 0 if unknown
	Err  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

// Unwrap returns the underlying syntax error
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is returned when a field is missing, holds a value of
// the wrong type, or holds a value outside of its legal range.
type ValidationError struct {
	Path       Path
	Constraint string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %v: %v", e.Path, e.Constraint)
}

// SchemaError is returned when a tagged variant cannot be resolved to
// exactly one known variant.
type SchemaError struct {
	Path    Path
	Reason  string
	Allowed []string // Variants legal at Path, if known
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("schema error: %v at %v", e.Reason, e.Path)
	if len(e.Allowed) > 0 {
		msg += fmt.Sprintf(" (want one of: %v)", strings.Join(e.Allowed, ", "))
	}
	return msg
}

// Invalid returns a new *ValidationError at path p
func Invalid(p Path, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Path: p, Constraint: fmt.Sprintf(format, args...)}
}

// Violation is a range violation on a named field, returned by the
// Validate methods of configuration structs. Violations are relative to
// the struct they were found in and are anchored to a full document path
// with Anchor.
type Violation struct {
	Field      Path
	Constraint string

	// Other fields the constraint reads, such as qmax for a qmin < qmax
	// check
	Depends []Path
}

// On records that the constraint of v also reads fields, and returns v
func (v *Violation) On(fields ...string) *Violation {
	for _, f := range fields {
		v.Depends = append(v.Depends, Path{f})
	}
	return v
}

// Error implements the error interface
func (v *Violation) Error() string {
	return fmt.Sprintf("%v: %v", v.Field, v.Constraint)
}

// Violate returns a new *Violation on the argument field
func Violate(field string, format string, args ...interface{}) *Violation {
	return &Violation{
		Field:      Path{field},
		Constraint: fmt.Sprintf(format, args...),
	}
}

// Violations is a list of Violations found while validating a single
// configuration struct
type Violations []*Violation

// Error implements the error interface
func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Err returns vs as an error, or nil if vs is empty
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return vs
}

// Collect returns the Violations held by err. An error that is not a
// Violation is returned as a Violation on an empty field.
func Collect(err error) Violations {
	switch e := err.(type) {
	case nil:
		return nil
	case Violations:
		return e
	case *Violation:
		return Violations{e}
	}
	return Violations{{Constraint: err.Error()}}
}

// Nest prefixes the fields of all Violations in err with field, so that
// a nested struct's violations can be reported by its parent. A nil err
// returns nil.
func Nest(field string, err error) Violations {
	vs := Collect(err)
	nested := make(Violations, len(vs))
	for i, v := range vs {
		var depends []Path
		for _, dep := range v.Depends {
			depends = append(depends, append(Path{field}, dep...))
		}
		nested[i] = &Violation{
			Field:      append(Path{field}, v.Field...),
			Constraint: v.Constraint,
			Depends:    depends,
		}
	}
	return nested
}

// Anchor converts the Violations in err to ValidationErrors rooted at p.
// Errors that are not Violations are reported at p itself.
func Anchor(p Path, err error) []error {
	vs := Collect(err)
	errs := make([]error, 0, len(vs))
	for _, v := range vs {
		full := append(append(Path{}, p...), v.Field...)
		errs = append(errs, &ValidationError{Path: full, Constraint: v.Constraint})
	}
	return errs
}
