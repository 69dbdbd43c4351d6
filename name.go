package domvisit

// Name identifies nodes and keys. Names are comparable and usable as map keys.
// Reserved names produced by this package never compare equal to a NewName
// result, even when their text matches.
type Name struct {
	text     string
	reserved bool
}

// NewName returns the identifier for text.
func NewName(text string) Name { return Name{text: text} }

func (n Name) String() string { return n.text }

// IsReserved reports whether n is one of the synthetic names below.
func (n Name) IsReserved() bool { return n.reserved }

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool { return n == Name{} }

// Synthetic names carried through a consumer that lacks a primitive.
var (
	// NameObject marks a node standing in for an object.
	NameObject = Name{text: "Object", reserved: true}
	// NameArray marks a node standing in for an array.
	NameArray = Name{text: "Array", reserved: true}
	// NameEntry wraps one member or element of an emulated object or array.
	NameEntry = Name{text: "Entry", reserved: true}
	// NameKey is the Entry attribute carrying the member key.
	NameKey = Name{text: "Key", reserved: true}
	// NameNode is the object member carrying a node name when nodes are
	// emulated through objects.
	NameNode = Name{text: "Node", reserved: true}
	// NameChildren is the object member holding emulated node elements.
	NameChildren = Name{text: "Children", reserved: true}
)

// Lifetime hints whether text handed to a visitor outlives the call.
type Lifetime int

const (
	// Temporary text may be reused by the producer after the call returns.
	Temporary Lifetime = iota
	// Persistent text stays valid for the whole traversal.
	Persistent
)

func (l Lifetime) String() string {
	if l == Persistent {
		return "persistent"
	}
	return "temporary"
}
