// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds how much CUE input Unify accepts (5MB).
// Compilation is memory-hungry, so oversized documents are rejected
// before they reach the evaluator.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// Option adjusts how Unify treats the user document.
type Option func(*settings)

type settings struct {
	filename    string
	maxFileSize int64
	concrete    bool
}

func applyOptions(opts []Option) settings {
	s := settings{
		filename:    "<input>",
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithFilename names the document in error messages. Without it, errors
// refer to "<input>".
func WithFilename(name string) Option {
	return func(s *settings) { s.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(s *settings) { s.maxFileSize = n }
}

// WithConcrete controls whether every field must hold a concrete value
// after unification. It defaults to true; pass false for documents whose
// schema marks fields optional.
func WithConcrete(concrete bool) Option {
	return func(s *settings) { s.concrete = concrete }
}

// Unify compiles data, unifies it with the definition at defPath inside
// schema, and validates the result. The returned value has schema
// defaults applied and is ready to Decode. Problems with the schema
// itself surface as internal errors; problems with data are rewritten
// through FormatError.
func Unify(schema string, data []byte, defPath string, opts ...Option) (cue.Value, error) {
	s := applyOptions(opts)

	var none cue.Value
	if err := CheckFileSize(data, s.maxFileSize, s.filename); err != nil {
		return none, err
	}

	ctx := cuecontext.New()
	compiled := ctx.CompileString(schema)
	if compiled.Err() != nil {
		return none, fmt.Errorf("internal error: compiling schema: %w", compiled.Err())
	}
	def := compiled.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return none, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	doc := ctx.CompileBytes(data, cue.Filename(s.filename))
	if doc.Err() != nil {
		return none, FormatError(doc.Err(), s.filename)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(s.concrete)); err != nil {
		return none, FormatError(err, s.filename)
	}
	return unified, nil
}

// Decode validates data against the definition at defPath inside schema
// and decodes the unified value into a T. On failure the zero T is
// returned along with the formatted error.
func Decode[T any](schema string, data []byte, defPath string, opts ...Option) (T, error) {
	var out T
	unified, err := Unify(schema, data, defPath, opts...)
	if err != nil {
		return out, err
	}
	if err := unified.Decode(&out); err != nil {
		return out, FormatError(err, applyOptions(opts).filename)
	}
	return out, nil
}
