package config

import (
	"fmt"
	"strconv"
	"strings"
)

type fieldType interface {
	string | int | float64
}

// Field declares one setting of a section. A required field ignores Default.
type Field[T fieldType] struct {
	Name     string
	Required bool
	Default  T
	Secret   bool
	// Validate reports a range violation for an otherwise well-typed value
	Validate func(T) error
}

// Attribute is one resolved setting together with its provenance
type Attribute struct {
	Section string `json:"section" yaml:"section"`
	Field   string `json:"field" yaml:"field"`
	Key     string `json:"key" yaml:"key"`
	Value   string `json:"value" yaml:"value"`
	Source  Source `json:"source" yaml:"source"`
	Secret  bool   `json:"-" yaml:"-"`
}

// sectionReader resolves the fields of one section and collects failures
// instead of stopping at the first one.
type sectionReader struct {
	section string
	prefix  string
	src     *layers
	errs    []*FieldError
	attrs   []Attribute
}

func newSectionReader(section, prefix string, src *layers) *sectionReader {
	return &sectionReader{section: section, prefix: prefix, src: src}
}

func (r *sectionReader) fail(kind ErrorKind, f, key, raw string, err error) {
	r.errs = append(r.errs, &FieldError{
		Kind:    kind,
		Section: r.section,
		Field:   f,
		Key:     key,
		Value:   raw,
		Err:     err,
	})
}

func (r *sectionReader) record(f, key, value string, source Source, secret bool) {
	r.attrs = append(r.attrs, Attribute{
		Section: r.section,
		Field:   f,
		Key:     key,
		Value:   value,
		Source:  source,
		Secret:  secret,
	})
}

// read resolves f from the reader's sources. On failure it records a
// FieldError and returns the zero value; the caller discards the section.
func read[T fieldType](r *sectionReader, f Field[T]) T {
	key := r.prefix + f.Name
	name := strings.ToLower(f.Name)

	raw, source, ok := r.src.lookup(key)
	if !ok {
		if f.Required {
			r.fail(MissingRequiredField, name, key, "", nil)
			var zero T
			return zero
		}
		r.record(name, key, format(f.Default), SourceDefault, f.Secret)
		return f.Default
	}

	v, err := coerce[T](raw)
	if err != nil {
		r.fail(TypeCoercionError, name, key, raw, err)
		return v
	}

	if f.Validate != nil {
		if err := f.Validate(v); err != nil {
			r.fail(RangeValidationError, name, key, raw, err)
			return v
		}
	}

	r.record(name, key, format(v), source, f.Secret)
	return v
}

func coerce[T fieldType](raw string) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return out, fmt.Errorf("expected an integer: %w", err)
		}
		*p = n
	case *float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return out, fmt.Errorf("expected a number: %w", err)
		}
		*p = n
	}
	return out, nil
}

func format[T fieldType](v T) string {
	switch x := any(v).(type) {
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// between accepts values in the closed interval [lo, hi]. NaN is rejected.
func between(lo, hi float64) func(float64) error {
	return func(v float64) error {
		if v >= lo && v <= hi {
			return nil
		}
		return fmt.Errorf("%v is not within [%v, %v]", v, lo, hi)
	}
}
