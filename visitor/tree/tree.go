// Package tree materializes a visited document into plain Go values:
// map[string]any for objects, []any for arrays, and nil, bool, int64, uint64,
// float64 or string for scalars.
package tree

import (
	"errors"
	"fmt"

	"github.com/reoring/domvisit"
	"github.com/reoring/domvisit/internal/stack"
)

var (
	// ErrIncomplete is returned by Result while containers are still open.
	ErrIncomplete = errors.New("tree: document incomplete")
	errNoKey      = errors.New("tree: object member without key")
	errMismatch   = errors.New("tree: end does not match open container")
)

type frame struct {
	obj    map[string]any
	arr    []any
	isObj  bool
	key    string
	hasKey bool
}

// Builder is an Objects|Arrays visitor. Wrap it in a domvisit.Adapter to feed
// it node or raw streams.
type Builder struct {
	domvisit.Unsupported

	open  *stack.Stack[frame]
	roots []any
}

var _ domvisit.Visitor = (*Builder)(nil)

// New returns an empty builder.
func New() *Builder { return &Builder{open: stack.New[frame]()} }

func (b *Builder) Flags() domvisit.Flags { return domvisit.FlagObjects | domvisit.FlagArrays }

// Result returns the first completed top-level value.
func (b *Builder) Result() (any, error) {
	if !b.open.IsEmpty() || len(b.roots) == 0 {
		return nil, ErrIncomplete
	}
	return b.roots[0], nil
}

// Results returns every completed top-level value in order.
func (b *Builder) Results() []any { return b.roots }

func (b *Builder) add(v any) error {
	top := b.open.Top()
	switch {
	case top == nil:
		b.roots = append(b.roots, v)
	case top.isObj:
		if !top.hasKey {
			return errNoKey
		}
		top.obj[top.key] = v
		top.key, top.hasKey = "", false
	default:
		top.arr = append(top.arr, v)
	}
	return nil
}

func (b *Builder) Null() error            { return b.add(nil) }
func (b *Builder) Bool(v bool) error      { return b.add(v) }
func (b *Builder) Int64(v int64) error    { return b.add(v) }
func (b *Builder) Uint64(v uint64) error  { return b.add(v) }
func (b *Builder) Double(v float64) error { return b.add(v) }

func (b *Builder) String(s string, _ domvisit.Lifetime) error { return b.add(s) }

func (b *Builder) StartObject() error {
	b.open.Push(frame{isObj: true, obj: map[string]any{}})
	return nil
}

func (b *Builder) EndObject(n uint64) error {
	top := b.open.Top()
	if top == nil || !top.isObj {
		return errMismatch
	}
	if uint64(len(top.obj)) > n {
		return fmt.Errorf("tree: object reported %d members, built %d", n, len(top.obj))
	}
	f, _ := b.open.Pop()
	return b.add(f.obj)
}

func (b *Builder) Key(k domvisit.Name) error {
	top := b.open.Top()
	if top == nil || !top.isObj {
		return errNoKey
	}
	top.key, top.hasKey = k.String(), true
	return nil
}

func (b *Builder) StartArray() error {
	b.open.Push(frame{arr: []any{}})
	return nil
}

func (b *Builder) EndArray(uint64) error {
	top := b.open.Top()
	if top == nil || top.isObj {
		return errMismatch
	}
	f, _ := b.open.Pop()
	return b.add(f.arr)
}
