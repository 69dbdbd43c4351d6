package domvisit

// Visitor consumes a stream of document events. Every method reports success
// with a nil error; begin events are matched by end events carrying the number
// of members, elements, or attributes written in between.
type Visitor interface {
	// Flags reports the primitives this visitor understands natively.
	Flags() Flags

	Null() error
	Bool(v bool) error
	Int64(v int64) error
	Uint64(v uint64) error
	Double(v float64) error
	String(s string, lt Lifetime) error
	// RawValue carries unparsed scalar text.
	RawValue(s string, lt Lifetime) error

	StartObject() error
	EndObject(attributeCount uint64) error
	Key(k Name) error
	// RawKey carries unparsed key text.
	RawKey(s string, lt Lifetime) error
	StartArray() error
	EndArray(elementCount uint64) error

	StartNode(name Name) error
	RawStartNode(s string, lt Lifetime) error
	EndNode(attributeCount, elementCount uint64) error
}

// Unsupported can be embedded by visitors that implement only part of the
// contract. Every method fails with ErrUnsupported.
type Unsupported struct{}

func (Unsupported) Flags() Flags { return FlagNone }

func (Unsupported) Null() error                         { return opErr("null", ErrUnsupported) }
func (Unsupported) Bool(bool) error                     { return opErr("bool", ErrUnsupported) }
func (Unsupported) Int64(int64) error                   { return opErr("int64", ErrUnsupported) }
func (Unsupported) Uint64(uint64) error                 { return opErr("uint64", ErrUnsupported) }
func (Unsupported) Double(float64) error                { return opErr("double", ErrUnsupported) }
func (Unsupported) String(string, Lifetime) error       { return opErr("string", ErrUnsupported) }
func (Unsupported) RawValue(string, Lifetime) error     { return opErr("raw value", ErrUnsupported) }
func (Unsupported) StartObject() error                  { return opErr("start object", ErrUnsupported) }
func (Unsupported) EndObject(uint64) error              { return opErr("end object", ErrUnsupported) }
func (Unsupported) Key(Name) error                      { return opErr("key", ErrUnsupported) }
func (Unsupported) RawKey(string, Lifetime) error       { return opErr("raw key", ErrUnsupported) }
func (Unsupported) StartArray() error                   { return opErr("start array", ErrUnsupported) }
func (Unsupported) EndArray(uint64) error               { return opErr("end array", ErrUnsupported) }
func (Unsupported) StartNode(Name) error                { return opErr("start node", ErrUnsupported) }
func (Unsupported) RawStartNode(string, Lifetime) error { return opErr("raw start node", ErrUnsupported) }
func (Unsupported) EndNode(uint64, uint64) error        { return opErr("end node", ErrUnsupported) }

var _ Visitor = Unsupported{}
