package domvisit

import (
	"strconv"
	"strings"
)

// LiteralKind is the scalar type a raw text span classifies as.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNull
	LiteralBool
	LiteralInt64
	LiteralUint64
	LiteralDouble
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNull:
		return "null"
	case LiteralBool:
		return "bool"
	case LiteralInt64:
		return "int64"
	case LiteralUint64:
		return "uint64"
	case LiteralDouble:
		return "double"
	default:
		return "string"
	}
}

// Literal is the typed scalar classified from raw text. Only the field
// matching Kind is meaningful.
type Literal struct {
	Kind   LiteralKind
	Bool   bool
	Int    int64
	Uint   uint64
	Double float64
	Str    string
}

var (
	trueSpellings  = []string{"true", "yes", "on"}
	falseSpellings = []string{"false", "no", "off"}
	nullSpellings  = []string{"null", "nil", "~"}
)

// ClassifyRaw maps unparsed scalar text to a typed literal. It never fails:
// text outside the grammar is returned as a string literal.
func ClassifyRaw(text string) Literal {
	if inner, ok := unquote(text); ok {
		return Literal{Kind: LiteralString, Str: inner}
	}
	if matchFold(text, trueSpellings) {
		return Literal{Kind: LiteralBool, Bool: true}
	}
	if matchFold(text, falseSpellings) {
		return Literal{Kind: LiteralBool}
	}
	if matchFold(text, nullSpellings) {
		return Literal{Kind: LiteralNull}
	}
	if lit, ok := classifyNumber(text); ok {
		return lit
	}
	return Literal{Kind: LiteralString, Str: text}
}

// UnquoteRaw strips one matching pair of single or double quotes. Keys are
// never classified further than this.
func UnquoteRaw(text string) string {
	if inner, ok := unquote(text); ok {
		return inner
	}
	return text
}

// Dispatch forwards the literal to v through the matching typed call.
func (l Literal) Dispatch(v Visitor, lt Lifetime) error {
	switch l.Kind {
	case LiteralNull:
		return v.Null()
	case LiteralBool:
		return v.Bool(l.Bool)
	case LiteralInt64:
		return v.Int64(l.Int)
	case LiteralUint64:
		return v.Uint64(l.Uint)
	case LiteralDouble:
		return v.Double(l.Double)
	default:
		return v.String(l.Str, lt)
	}
}

func unquote(text string) (string, bool) {
	if len(text) < 2 {
		return "", false
	}
	q := text[0]
	if q != '"' && q != '\'' {
		return "", false
	}
	if text[len(text)-1] != q {
		return "", false
	}
	inner := text[1 : len(text)-1]
	if strings.IndexByte(inner, q) >= 0 {
		return "", false
	}
	return inner, true
}

func matchFold(text string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(text, s) {
			return true
		}
	}
	return false
}

// classifyNumber accepts -?digits*(.digits*)? with at least one digit.
func classifyNumber(text string) (Literal, bool) {
	i := 0
	negative := false
	if i < len(text) && text[i] == '-' {
		negative = true
		i++
	}
	intDigits := scanDigits(text[i:])
	i += intDigits
	fracDigits := 0
	dot := false
	if i < len(text) && text[i] == '.' {
		dot = true
		i++
		fracDigits = scanDigits(text[i:])
		i += fracDigits
	}
	if i != len(text) || intDigits+fracDigits == 0 {
		return Literal{}, false
	}

	switch {
	case dot && fracDigits > 0:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Literal{}, false
		}
		return Literal{Kind: LiteralDouble, Double: f}, true
	case negative:
		digits := strings.TrimSuffix(text, ".")
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return Literal{}, false
		}
		return Literal{Kind: LiteralInt64, Int: n}, true
	default:
		digits := strings.TrimSuffix(text, ".")
		n, err := strconv.ParseUint(digits, 0, 64)
		if err != nil {
			// "09" is not valid octal; read it as decimal.
			n, err = strconv.ParseUint(digits, 10, 64)
			if err != nil {
				return Literal{}, false
			}
		}
		return Literal{Kind: LiteralUint64, Uint: n}, true
	}
}

func scanDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
