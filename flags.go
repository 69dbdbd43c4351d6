package domvisit

import "strings"

// Flags is the set of structural primitives a Visitor understands natively.
type Flags uint8

const (
	FlagObjects Flags = 1 << iota
	FlagArrays
	FlagNodes
	FlagRawValues
	FlagRawKeys

	FlagNone Flags = 0
	FlagAll        = FlagObjects | FlagArrays | FlagNodes | FlagRawValues | FlagRawKeys
)

var flagNames = [...]struct {
	flag Flags
	name string
}{
	{FlagObjects, "objects"},
	{FlagArrays, "arrays"},
	{FlagNodes, "nodes"},
	{FlagRawValues, "rawvalues"},
	{FlagRawKeys, "rawkeys"},
}

// Has reports whether every flag in other is set.
func (f Flags) Has(other Flags) bool { return f&other == other }

// With returns f plus other.
func (f Flags) With(other Flags) Flags { return f | other }

// Without returns f with other cleared.
func (f Flags) Without(other Flags) Flags { return f &^ other }

// String renders the set as a comma-separated list, "none" when empty.
func (f Flags) String() string {
	if f == FlagNone {
		return "none"
	}
	parts := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseFlags is the inverse of Flags.String. It also accepts "all" and
// ignores surrounding whitespace and case.
func ParseFlags(s string) (Flags, error) {
	var out Flags
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "", "none":
			continue
		case "all":
			out |= FlagAll
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == part {
				out |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return FlagNone, &OpError{Op: "parse flags", Err: errUnknownFlag(part)}
		}
	}
	return out, nil
}
