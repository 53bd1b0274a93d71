// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package callable describes the shapes of funcs accepted by package guard.
//
// The Mutator and Viewer constraints do the work at compile time: a func
// that doesn't take exactly one *T or T, respectively, can't instantiate
// them. Inspect and Classify report the same thing for an arbitrary func
// value at run time, for diagnostics and tests.
package callable

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Mutator is the set of funcs that take a pointer to T and return R.
//
// Named func types are included, so a method value, a func variable and a
// value of a type like
//
//	type Op func(*int) bool
//
// all satisfy Mutator[int, bool].
type Mutator[T, R any] interface {
	~func(*T) R
}

// Viewer is the set of funcs that take a T by value and return R.
type Viewer[T, R any] interface {
	~func(T) R
}

// Mode is how a func accesses the value it's called with.
type Mode int

const (
	Invalid  Mode = iota
	Mutating      // func(*T): requires exclusive access
	ReadOnly      // func(T): shared access suffices
)

func (m Mode) String() string {
	switch m {
	case Mutating:
		return "mutating"
	case ReadOnly:
		return "read-only"
	}
	return "invalid"
}

var (
	// ErrNotFunc is returned for values that can't be called.
	ErrNotFunc = errors.New("not a func")

	// ErrArity is returned for funcs that don't take exactly one parameter.
	ErrArity = errors.New("must take exactly one parameter")

	// ErrParamType is returned for funcs whose only parameter is neither T
	// nor *T.
	ErrParamType = errors.New("parameter is neither the value nor a pointer to it")
)

// Signature is the parameter and result types of a func.
type Signature struct {
	In       []reflect.Type
	Out      []reflect.Type
	Variadic bool // the last element of In is a slice of the variadic type
}

// Inspect returns the signature of fn, which may be any func value
// including a method value, a closure or a value of a named func type.
func Inspect(fn any) (Signature, error) {
	if fn == nil {
		return Signature{}, fmt.Errorf("callable: nil: %w", ErrNotFunc)
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("callable: %v: %w", t, ErrNotFunc)
	}
	return signatureOf(t), nil
}

func signatureOf(t reflect.Type) Signature {
	sig := Signature{
		In:       make([]reflect.Type, t.NumIn()),
		Out:      make([]reflect.Type, t.NumOut()),
		Variadic: t.IsVariadic(),
	}
	for i := range sig.In {
		sig.In[i] = t.In(i)
	}
	for i := range sig.Out {
		sig.Out[i] = t.Out(i)
	}
	return sig
}

// String returns s formatted like a Go func type.
func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteString("func(")
	for i, in := range s.In {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s.Variadic && i == len(s.In)-1 {
			sb.WriteString("...")
			sb.WriteString(in.Elem().String())
			continue
		}
		sb.WriteString(in.String())
	}
	sb.WriteString(")")
	switch len(s.Out) {
	case 0:
	case 1:
		sb.WriteString(" ")
		sb.WriteString(s.Out[0].String())
	default:
		sb.WriteString(" (")
		for i, out := range s.Out {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(out.String())
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Classify reports whether fn can be passed to guard as a mutating
// (func(*T) R) or read-only (func(T) R) operation.
//
// The returned error wraps ErrNotFunc, ErrArity or ErrParamType.
func Classify[T any](fn any) (Mode, error) {
	sig, err := Inspect(fn)
	if err != nil {
		return Invalid, err
	}
	if len(sig.In) != 1 || sig.Variadic {
		return Invalid, fmt.Errorf("callable: %v: %w", sig, ErrArity)
	}
	want := reflect.TypeFor[T]()
	switch sig.In[0] {
	case reflect.PointerTo(want):
		return Mutating, nil
	case want:
		return ReadOnly, nil
	}
	return Invalid, fmt.Errorf("callable: %v over %v: %w", sig, want, ErrParamType)
}
