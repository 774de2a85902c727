package interpreter

import "kiln/pkg/resolver"

// Frame is one activation of a function. Slots is indexed by the resolver's
// slot numbers, so scoping needs no runtime lookup.
type Frame struct {
	Function *resolver.Function
	Slots    []int64
}

func newFrame(fn *resolver.Function) *Frame {
	return &Frame{
		Function: fn,
		Slots:    make([]int64, len(fn.Slots)),
	}
}
