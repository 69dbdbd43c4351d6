package domvisit

import (
	"github.com/tliron/commonlog"

	"github.com/reoring/domvisit/internal/stack"
)

// Options configures an Adapter. The zero value is usable.
type Options struct {
	// Logger receives a debug line with the negotiated polyfills. Nil disables it.
	Logger commonlog.Logger
	// Depth sizes the frame stacks up front when the nesting depth is known.
	Depth int
}

type nodeKind uint8

const (
	emulatedObject nodeKind = iota
	emulatedArray
	nativeObject
	nativeArray
)

// nodeFrame is one open object or array. Native containers get a frame too so
// ends are matched and values inside them are not wrapped.
type nodeFrame struct {
	kind       nodeKind
	key        Name
	hasKey     bool
	attributes uint64
	elements   uint64
}

func (f *nodeFrame) isObject() bool {
	return f.kind == emulatedObject || f.kind == nativeObject
}

type entryRole uint8

const (
	rolePlain entryRole = iota
	roleWrapsObject
	roleWrapsArray
	roleEntry
)

// entryFrame is one upstream node.
type entryFrame struct {
	role entryRole
	// nodeDepth is the node stack size when the frame was pushed.
	nodeDepth       int
	nextStringIsKey bool

	// Plain nodes written as objects.
	keyPending   bool
	childrenOpen bool
	children     uint64
	members      uint64
}

// Adapter presents the full primitive set to its caller and forwards events to
// a downstream visitor, emulating whatever the downstream lacks. One Adapter
// serves one traversal and is not safe for concurrent use.
type Adapter struct {
	next     Visitor
	native   Flags
	polyfill Flags
	nodes    *stack.Stack[nodeFrame]
	entries  *stack.Stack[entryFrame]
}

var _ Visitor = (*Adapter)(nil)

// NewAdapter negotiates against next and returns an adapter in front of it.
// It fails with ErrUnsupportedVisitor when next offers nothing to emulate with.
func NewAdapter(next Visitor, opts ...Options) (*Adapter, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	native := next.Flags()
	polyfill, err := Negotiate(native)
	if err != nil {
		return nil, err
	}
	if opt.Logger != nil {
		opt.Logger.Debugf("downstream supports %s, polyfilling %s", native, polyfill)
	}
	return &Adapter{
		next:     next,
		native:   native,
		polyfill: polyfill,
		nodes:    stack.NewWithCapacity[nodeFrame](opt.Depth),
		entries:  stack.NewWithCapacity[entryFrame](opt.Depth),
	}, nil
}

// Flags always reports FlagAll: native capabilities plus emulated ones.
func (a *Adapter) Flags() Flags { return a.native | a.polyfill }

// Polyfilled reports the primitives this adapter emulates.
func (a *Adapter) Polyfilled() Flags { return a.polyfill }

// Depth is the number of open frames; zero after a balanced traversal.
func (a *Adapter) Depth() int { return a.nodes.Size() + a.entries.Size() }

// emulating returns the object or array frame receiving values at the current
// position, or nil when values go straight downstream.
func (a *Adapter) emulating() *nodeFrame {
	top := a.nodes.Top()
	if top == nil || top.kind == nativeObject || top.kind == nativeArray {
		return nil
	}
	if e := a.entries.Top(); e != nil && e.role == rolePlain && e.nodeDepth == a.nodes.Size() {
		return nil
	}
	return top
}

// innermostContainer returns the top node frame when no upstream node was
// opened after it. A node wrapping the container must be closed with EndNode.
func (a *Adapter) innermostContainer() *nodeFrame {
	top := a.nodes.Top()
	if top == nil {
		return nil
	}
	if e := a.entries.Top(); e != nil && e.nodeDepth == a.nodes.Size() {
		return nil
	}
	return top
}

// innermostEntry returns the top entry frame when no container was opened
// after it.
func (a *Adapter) innermostEntry(role entryRole) *entryFrame {
	e := a.entries.Top()
	if e == nil || e.role != role || e.nodeDepth != a.nodes.Size() {
		return nil
	}
	return e
}

// plainNode returns the innermost plain node when nodes are written as objects.
func (a *Adapter) plainNode() *entryFrame {
	if !a.polyfill.Has(FlagNodes) {
		return nil
	}
	return a.innermostEntry(rolePlain)
}

// takeKeyFlag consumes a pending key reinterpretation for the next string.
func (a *Adapter) takeKeyFlag() bool {
	e := a.innermostEntry(roleEntry)
	if e == nil || !e.nextStringIsKey {
		return false
	}
	e.nextStringIsKey = false
	return true
}

func (a *Adapter) beginValue() error {
	var r results
	if top := a.emulating(); top != nil {
		r.add(a.next.StartNode(NameEntry))
		if top.hasKey {
			r.add(a.next.Key(NameKey))
			r.add(a.next.String(top.key.String(), Temporary))
		} else {
			top.elements++
		}
	}
	if e := a.plainNode(); e != nil && !e.keyPending {
		if !e.childrenOpen {
			r.add(a.next.Key(NameChildren))
			r.add(a.next.StartArray())
			e.childrenOpen = true
			e.children = 0
			e.members++
		}
		e.children++
	}
	return r.err
}

func (a *Adapter) endValue() error {
	var r results
	if top := a.emulating(); top != nil {
		if top.hasKey {
			top.attributes++
			top.key, top.hasKey = Name{}, false
			r.add(a.next.EndNode(1, 0))
		} else {
			r.add(a.next.EndNode(0, 1))
		}
	}
	if e := a.plainNode(); e != nil {
		e.keyPending = false
	}
	return r.err
}

func (a *Adapter) scalar(emit func() error) error {
	var r results
	r.add(a.beginValue())
	r.add(emit())
	r.add(a.endValue())
	return r.err
}

func (a *Adapter) Null() error { return a.scalar(a.next.Null) }

func (a *Adapter) Bool(v bool) error {
	return a.scalar(func() error { return a.next.Bool(v) })
}

func (a *Adapter) Int64(v int64) error {
	return a.scalar(func() error { return a.next.Int64(v) })
}

func (a *Adapter) Uint64(v uint64) error {
	return a.scalar(func() error { return a.next.Uint64(v) })
}

func (a *Adapter) Double(v float64) error {
	return a.scalar(func() error { return a.next.Double(v) })
}

func (a *Adapter) String(s string, lt Lifetime) error {
	if a.takeKeyFlag() {
		return a.Key(NewName(s))
	}
	return a.scalar(func() error { return a.next.String(s, lt) })
}

func (a *Adapter) RawValue(s string, lt Lifetime) error {
	if a.takeKeyFlag() {
		return a.RawKey(s, lt)
	}
	if !a.polyfill.Has(FlagRawValues) {
		return a.scalar(func() error { return a.next.RawValue(s, lt) })
	}
	return ClassifyRaw(s).Dispatch(a, lt)
}

func (a *Adapter) StartObject() error {
	var r results
	r.add(a.beginValue())
	switch {
	case a.polyfill.Has(FlagObjects):
		a.nodes.Push(nodeFrame{kind: emulatedObject})
		r.add(a.next.StartNode(NameObject))
	default:
		a.nodes.Push(nodeFrame{kind: nativeObject})
		r.add(a.next.StartObject())
	}
	return r.err
}

func (a *Adapter) EndObject(attributeCount uint64) error {
	return a.endContainer("end object", emulatedObject, nativeObject, func() error {
		return a.next.EndObject(attributeCount)
	})
}

func (a *Adapter) StartArray() error {
	var r results
	r.add(a.beginValue())
	switch {
	case a.polyfill.Has(FlagArrays):
		a.nodes.Push(nodeFrame{kind: emulatedArray})
		r.add(a.next.StartNode(NameArray))
	default:
		a.nodes.Push(nodeFrame{kind: nativeArray})
		r.add(a.next.StartArray())
	}
	return r.err
}

func (a *Adapter) EndArray(elementCount uint64) error {
	return a.endContainer("end array", emulatedArray, nativeArray, func() error {
		return a.next.EndArray(elementCount)
	})
}

func (a *Adapter) endContainer(op string, emulated, native nodeKind, forward func() error) error {
	top := a.innermostContainer()
	if top == nil || (top.kind != emulated && top.kind != native) {
		return opErr(op, ErrUnbalanced)
	}
	var r results
	f, _ := a.nodes.Pop()
	if f.kind == emulated {
		r.add(a.next.EndNode(f.attributes, f.elements))
	} else {
		r.add(forward())
	}
	r.add(a.endValue())
	return r.err
}

func (a *Adapter) Key(k Name) error {
	if k == NameKey {
		if e := a.innermostEntry(roleEntry); e != nil {
			e.nextStringIsKey = true
			return nil
		}
	}
	if top := a.emulating(); top != nil {
		top.key, top.hasKey = k, true
		return nil
	}
	return a.attribute(func() error { return a.next.Key(k) })
}

func (a *Adapter) RawKey(s string, lt Lifetime) error {
	if a.polyfill.Has(FlagRawKeys) {
		return a.Key(NewName(UnquoteRaw(s)))
	}
	if top := a.emulating(); top != nil {
		top.key, top.hasKey = NewName(s), true
		return nil
	}
	return a.attribute(func() error { return a.next.RawKey(s, lt) })
}

// attribute forwards a key, first closing the element array of a plain node
// written as an object.
func (a *Adapter) attribute(emit func() error) error {
	e := a.plainNode()
	if e == nil {
		return emit()
	}
	var r results
	if e.childrenOpen {
		r.add(a.next.EndArray(e.children))
		e.childrenOpen = false
	}
	e.keyPending = true
	e.members++
	r.add(emit())
	return r.err
}

func (a *Adapter) StartNode(name Name) error {
	switch name {
	case NameObject:
		err := a.StartObject()
		a.entries.Push(entryFrame{role: roleWrapsObject, nodeDepth: a.nodes.Size()})
		return err
	case NameArray:
		err := a.StartArray()
		a.entries.Push(entryFrame{role: roleWrapsArray, nodeDepth: a.nodes.Size()})
		return err
	case NameEntry:
		a.entries.Push(entryFrame{role: roleEntry, nodeDepth: a.nodes.Size()})
		return nil
	}

	var r results
	r.add(a.beginValue())
	a.entries.Push(entryFrame{role: rolePlain, nodeDepth: a.nodes.Size()})
	if a.polyfill.Has(FlagNodes) {
		top := a.entries.Top()
		top.members = 1
		r.add(a.next.StartObject())
		r.add(a.next.Key(NameNode))
		r.add(a.next.String(name.String(), Persistent))
	} else {
		r.add(a.next.StartNode(name))
	}
	return r.err
}

func (a *Adapter) RawStartNode(s string, lt Lifetime) error {
	return a.StartNode(NewName(s))
}

func (a *Adapter) EndNode(attributeCount, elementCount uint64) error {
	e, ok := a.entries.Peek()
	if !ok || e.nodeDepth != a.nodes.Size() {
		return opErr("end node", ErrUnbalanced)
	}
	if e.role == roleWrapsObject || e.role == roleWrapsArray {
		if top := a.nodes.Top(); top == nil || top.isObject() != (e.role == roleWrapsObject) {
			return opErr("end node", ErrUnbalanced)
		}
	}
	a.entries.Pop()

	switch e.role {
	case roleWrapsObject:
		return a.EndObject(attributeCount)
	case roleWrapsArray:
		return a.EndArray(elementCount)
	case roleEntry:
		return nil
	}

	var r results
	if a.polyfill.Has(FlagNodes) {
		if e.childrenOpen {
			r.add(a.next.EndArray(e.children))
		}
		r.add(a.next.EndObject(e.members))
	} else {
		r.add(a.next.EndNode(attributeCount, elementCount))
	}
	r.add(a.endValue())
	return r.err
}
