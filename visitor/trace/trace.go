// Package trace records visitor events. A Recorder advertises whatever
// capabilities it is told to, which makes it the reference downstream for
// observing what an adapter emits, and it can replay a recording into any
// other visitor.
package trace

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reoring/domvisit"
)

// Op names a visitor operation.
type Op string

const (
	OpNull         Op = "Null"
	OpBool         Op = "Bool"
	OpInt64        Op = "Int64"
	OpUint64       Op = "Uint64"
	OpDouble       Op = "Double"
	OpString       Op = "String"
	OpRawValue     Op = "RawValue"
	OpStartObject  Op = "StartObject"
	OpEndObject    Op = "EndObject"
	OpKey          Op = "Key"
	OpRawKey       Op = "RawKey"
	OpStartArray   Op = "StartArray"
	OpEndArray     Op = "EndArray"
	OpStartNode    Op = "StartNode"
	OpRawStartNode Op = "RawStartNode"
	OpEndNode      Op = "EndNode"
)

// ErrInjected is returned for operations listed in Recorder.FailOn.
var ErrInjected = errors.New("trace: injected failure")

// Event is one recorded call. Only the fields used by Op are set.
type Event struct {
	Op       Op
	Name     domvisit.Name
	Text     string
	Lifetime domvisit.Lifetime
	Bool     bool
	Int      int64
	Uint     uint64
	Double   float64
	Count    uint64 // EndObject attributes, EndArray elements, EndNode attributes
	Elements uint64 // EndNode elements
}

func (e Event) String() string {
	switch e.Op {
	case OpNull, OpStartObject, OpStartArray:
		return string(e.Op) + "()"
	case OpBool:
		return fmt.Sprintf("Bool(%t)", e.Bool)
	case OpInt64:
		return fmt.Sprintf("Int64(%d)", e.Int)
	case OpUint64:
		return fmt.Sprintf("Uint64(%d)", e.Uint)
	case OpDouble:
		return "Double(" + strconv.FormatFloat(e.Double, 'g', -1, 64) + ")"
	case OpString, OpRawValue, OpRawKey, OpRawStartNode:
		return fmt.Sprintf("%s(%q)", e.Op, e.Text)
	case OpKey, OpStartNode:
		return fmt.Sprintf("%s(%s)", e.Op, formatName(e.Name))
	case OpEndObject, OpEndArray:
		return fmt.Sprintf("%s(%d)", e.Op, e.Count)
	case OpEndNode:
		return fmt.Sprintf("EndNode(%d,%d)", e.Count, e.Elements)
	default:
		return string(e.Op)
	}
}

// formatName quotes document names and leaves synthetic names bare so the two
// stay distinguishable in dumps.
func formatName(n domvisit.Name) string {
	if n.IsReserved() {
		return n.String()
	}
	return strconv.Quote(n.String())
}

// Recorder captures every call it receives.
type Recorder struct {
	flags domvisit.Flags
	// FailOn lists operations that are recorded and then fail with ErrInjected.
	FailOn map[Op]bool

	Events []Event
}

var _ domvisit.Visitor = (*Recorder)(nil)

// New returns a Recorder advertising flags.
func New(flags domvisit.Flags) *Recorder { return &Recorder{flags: flags} }

func (r *Recorder) Flags() domvisit.Flags { return r.flags }

// Strings renders the recorded events.
func (r *Recorder) Strings() []string {
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.String()
	}
	return out
}

// Count returns how many events used op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, e := range r.Events {
		if e.Op == op {
			n++
		}
	}
	return n
}

// Reset drops the recording.
func (r *Recorder) Reset() { r.Events = r.Events[:0] }

func (r *Recorder) record(e Event) error {
	r.Events = append(r.Events, e)
	if r.FailOn[e.Op] {
		return &domvisit.OpError{Op: string(e.Op), Err: ErrInjected}
	}
	return nil
}

func (r *Recorder) Null() error         { return r.record(Event{Op: OpNull}) }
func (r *Recorder) Bool(v bool) error   { return r.record(Event{Op: OpBool, Bool: v}) }
func (r *Recorder) Int64(v int64) error { return r.record(Event{Op: OpInt64, Int: v}) }
func (r *Recorder) Uint64(v uint64) error {
	return r.record(Event{Op: OpUint64, Uint: v})
}
func (r *Recorder) Double(v float64) error {
	return r.record(Event{Op: OpDouble, Double: v})
}
func (r *Recorder) String(s string, lt domvisit.Lifetime) error {
	return r.record(Event{Op: OpString, Text: s, Lifetime: lt})
}
func (r *Recorder) RawValue(s string, lt domvisit.Lifetime) error {
	return r.record(Event{Op: OpRawValue, Text: s, Lifetime: lt})
}
func (r *Recorder) StartObject() error { return r.record(Event{Op: OpStartObject}) }
func (r *Recorder) EndObject(n uint64) error {
	return r.record(Event{Op: OpEndObject, Count: n})
}
func (r *Recorder) Key(k domvisit.Name) error { return r.record(Event{Op: OpKey, Name: k}) }
func (r *Recorder) RawKey(s string, lt domvisit.Lifetime) error {
	return r.record(Event{Op: OpRawKey, Text: s, Lifetime: lt})
}
func (r *Recorder) StartArray() error { return r.record(Event{Op: OpStartArray}) }
func (r *Recorder) EndArray(n uint64) error {
	return r.record(Event{Op: OpEndArray, Count: n})
}
func (r *Recorder) StartNode(name domvisit.Name) error {
	return r.record(Event{Op: OpStartNode, Name: name})
}
func (r *Recorder) RawStartNode(s string, lt domvisit.Lifetime) error {
	return r.record(Event{Op: OpRawStartNode, Text: s, Lifetime: lt})
}
func (r *Recorder) EndNode(attributes, elements uint64) error {
	return r.record(Event{Op: OpEndNode, Count: attributes, Elements: elements})
}

// Replay sends the recording to v in order. Every event is sent; the first
// failure is returned.
func (r *Recorder) Replay(v domvisit.Visitor) error {
	var errs []error
	for _, e := range r.Events {
		errs = append(errs, replayOne(v, e))
	}
	return domvisit.Combine(errs...)
}

func replayOne(v domvisit.Visitor, e Event) error {
	switch e.Op {
	case OpNull:
		return v.Null()
	case OpBool:
		return v.Bool(e.Bool)
	case OpInt64:
		return v.Int64(e.Int)
	case OpUint64:
		return v.Uint64(e.Uint)
	case OpDouble:
		return v.Double(e.Double)
	case OpString:
		return v.String(e.Text, e.Lifetime)
	case OpRawValue:
		return v.RawValue(e.Text, e.Lifetime)
	case OpStartObject:
		return v.StartObject()
	case OpEndObject:
		return v.EndObject(e.Count)
	case OpKey:
		return v.Key(e.Name)
	case OpRawKey:
		return v.RawKey(e.Text, e.Lifetime)
	case OpStartArray:
		return v.StartArray()
	case OpEndArray:
		return v.EndArray(e.Count)
	case OpStartNode:
		return v.StartNode(e.Name)
	case OpRawStartNode:
		return v.RawStartNode(e.Text, e.Lifetime)
	case OpEndNode:
		return v.EndNode(e.Count, e.Elements)
	default:
		return fmt.Errorf("trace: unknown op %q", e.Op)
	}
}

// WriteTo dumps the recording one event per line, indented by nesting.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	depth := 0
	for _, e := range r.Events {
		switch e.Op {
		case OpEndObject, OpEndArray, OpEndNode:
			if depth > 0 {
				depth--
			}
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(e.String())
		b.WriteByte('\n')
		switch e.Op {
		case OpStartObject, OpStartArray, OpStartNode, OpRawStartNode:
			depth++
		}
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
