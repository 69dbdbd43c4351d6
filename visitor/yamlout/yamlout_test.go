package yamlout_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/reoring/domvisit"
	jsonsrc "github.com/reoring/domvisit/source/json"
	yamlsrc "github.com/reoring/domvisit/source/yaml"
	"github.com/reoring/domvisit/visitor/yamlout"
)

func convert(t *testing.T, walk func(domvisit.Visitor) error) string {
	t.Helper()
	var buf bytes.Buffer
	w := yamlout.New(&buf)
	a, err := domvisit.NewAdapter(w)
	if err != nil {
		t.Fatal(err)
	}
	if err := walk(a); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.String()
}

func TestWriter_FromJSON(t *testing.T) {
	out := convert(t, func(v domvisit.Visitor) error {
		return jsonsrc.WalkBytes([]byte(`{"a":[1,"2",true,1.5,3e2],"b":null,"c":{}}`), v)
	})
	var got any
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	want := map[string]any{
		"a": []any{1, "2", true, 1.5, 300.0},
		"b": nil,
		"c": map[string]any{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded output (-want +got):\n%s\n%s", diff, out)
	}
}

func TestWriter_KeepsRawText(t *testing.T) {
	out := convert(t, func(v domvisit.Visitor) error {
		return yamlsrc.WalkBytes([]byte("mode: 0x1F\nflag: yes\nname: '12'\n"), v)
	})
	for _, want := range []string{"mode: 0x1F\n", "flag: yes\n", `name: "12"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestWriter_DocumentPerValue(t *testing.T) {
	var buf bytes.Buffer
	w := yamlout.New(&buf)
	_ = w.RawValue("a", domvisit.Temporary)
	_ = w.RawValue("b", domvisit.Temporary)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a\n---\nb\n" {
		t.Fatalf("got %q", got)
	}
}
