package posewrap

import "fmt"

// Opt is a value that may be absent. Metadata fields extracted from file names use it so that
// "not present in the name" stays distinct from a zero value.
//
// Opt is comparable whenever T is, which lets it key the grouping maps directly.
type Opt[T comparable] struct {
	v  T
	ok bool
}

func Some[T comparable](v T) Opt[T] { return Opt[T]{v: v, ok: true} }

func None[T comparable]() Opt[T] { return Opt[T]{} }

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if !o.ok {
		return def
	}
	return o.v
}

func (o Opt[T]) String() string {
	if !o.ok {
		return "<none>"
	}
	return fmt.Sprint(o.v)
}

// lessOpt orders absent values first, then by the value itself.
func lessOpt[T int | string](a, b Opt[T]) bool {
	if a.ok != b.ok {
		return !a.ok
	}
	return a.v < b.v
}
