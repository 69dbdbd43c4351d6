package domvisit

import "testing"

func TestClassifyRaw(t *testing.T) {
	cases := []struct {
		in   string
		want Literal
	}{
		{"true", Literal{Kind: LiteralBool, Bool: true}},
		{"Yes", Literal{Kind: LiteralBool, Bool: true}},
		{"ON", Literal{Kind: LiteralBool, Bool: true}},
		{"FALSE", Literal{Kind: LiteralBool}},
		{"off", Literal{Kind: LiteralBool}},
		{"null", Literal{Kind: LiteralNull}},
		{"NULL", Literal{Kind: LiteralNull}},
		{"~", Literal{Kind: LiteralNull}},
		{"'hi'", Literal{Kind: LiteralString, Str: "hi"}},
		{`"true"`, Literal{Kind: LiteralString, Str: "true"}},
		{`""`, Literal{Kind: LiteralString, Str: ""}},
		{"42", Literal{Kind: LiteralUint64, Uint: 42}},
		{"0", Literal{Kind: LiteralUint64}},
		{"010", Literal{Kind: LiteralUint64, Uint: 8}},
		{"09", Literal{Kind: LiteralUint64, Uint: 9}},
		{"7.", Literal{Kind: LiteralUint64, Uint: 7}},
		{"-42", Literal{Kind: LiteralInt64, Int: -42}},
		{"-0", Literal{Kind: LiteralInt64}},
		{"3.14", Literal{Kind: LiteralDouble, Double: 3.14}},
		{".5", Literal{Kind: LiteralDouble, Double: 0.5}},
		{"-2.25", Literal{Kind: LiteralDouble, Double: -2.25}},
		{".", Literal{Kind: LiteralString, Str: "."}},
		{"-", Literal{Kind: LiteralString, Str: "-"}},
		{"", Literal{Kind: LiteralString, Str: ""}},
		{"abc", Literal{Kind: LiteralString, Str: "abc"}},
		{"1e5", Literal{Kind: LiteralString, Str: "1e5"}},
		{"1.2.3", Literal{Kind: LiteralString, Str: "1.2.3"}},
		{"'unbalanced", Literal{Kind: LiteralString, Str: "'unbalanced"}},
		{`'it's'`, Literal{Kind: LiteralString, Str: `'it's'`}},
		{"99999999999999999999", Literal{Kind: LiteralString, Str: "99999999999999999999"}},
		{"truely", Literal{Kind: LiteralString, Str: "truely"}},
	}
	for _, tc := range cases {
		if got := ClassifyRaw(tc.in); got != tc.want {
			t.Errorf("ClassifyRaw(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestUnquoteRaw(t *testing.T) {
	cases := map[string]string{
		`"name"`:  "name",
		"'name'":  "name",
		"name":    "name",
		"42":      "42",
		"'":       "'",
		`"mixed'`: `"mixed'`,
	}
	for in, want := range cases {
		if got := UnquoteRaw(in); got != want {
			t.Errorf("UnquoteRaw(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLiteralKindString(t *testing.T) {
	if LiteralUint64.String() != "uint64" || LiteralString.String() != "string" {
		t.Fatalf("unexpected kind names: %s %s", LiteralUint64, LiteralString)
	}
}
