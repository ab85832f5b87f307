// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result is a decoded document together with its unified CUE value.
type Result[T any] struct {
	Value   *T
	Unified cue.Value
}

// Decode unifies data with the definition at defPath in schema, validates
// the result, and decodes it into a T.
func Decode[T any](schema, data []byte, defPath string, opts ...Option) (*Result[T], error) {
	o := options{maxFileSize: DefaultMaxFileSize, concrete: true, filename: "<input>"}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", err)
	}
	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema has no %s: %w", defPath, err)
	}

	user := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := user.Err(); err != nil {
		return nil, FormatError(err, o.filename)
	}

	unified := def.Unify(user)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &Result[T]{Value: &out, Unified: unified}, nil
}
