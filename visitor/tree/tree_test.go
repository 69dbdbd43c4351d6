package tree_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/domvisit"
	jsonsrc "github.com/reoring/domvisit/source/json"
	xmlsrc "github.com/reoring/domvisit/source/xml"
	yamlsrc "github.com/reoring/domvisit/source/yaml"
	"github.com/reoring/domvisit/visitor/tree"
)

func build(t *testing.T, walk func(domvisit.Visitor) error) any {
	t.Helper()
	b := tree.New()
	a, err := domvisit.NewAdapter(b)
	if err != nil {
		t.Fatal(err)
	}
	if err := walk(a); err != nil {
		t.Fatalf("walk: %v", err)
	}
	got, err := b.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	return got
}

func TestBuilder_JSONAndYAMLAgree(t *testing.T) {
	fromJSON := build(t, func(v domvisit.Visitor) error {
		return jsonsrc.WalkBytes([]byte(`{"name":"svc","port":8080,"tls":false,"tags":["a","b"],"ratio":0.25,"owner":null}`), v)
	})
	fromYAML := build(t, func(v domvisit.Visitor) error {
		return yamlsrc.WalkBytes([]byte("name: svc\nport: 8080\ntls: no\ntags: [a, b]\nratio: 0.25\nowner: ~\n"), v)
	})
	want := map[string]any{
		"name":  "svc",
		"port":  uint64(8080),
		"tls":   false,
		"tags":  []any{"a", "b"},
		"ratio": 0.25,
		"owner": nil,
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("json tree (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml tree (-want +got):\n%s", diff)
	}
}

func TestBuilder_XMLNodesBecomeObjects(t *testing.T) {
	got := build(t, func(v domvisit.Visitor) error {
		return xmlsrc.WalkBytes([]byte(`<item id="-7"><label>x</label></item>`), v)
	})
	node, children := domvisit.NameNode.String(), domvisit.NameChildren.String()
	label := map[string]any{node: "label", children: []any{"x"}}
	want := map[string]any{node: "item", "id": int64(-7), children: []any{label}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree (-want +got):\n%s", diff)
	}
}

func TestBuilder_Results(t *testing.T) {
	b := tree.New()
	if _, err := b.Result(); !errors.Is(err, tree.ErrIncomplete) {
		t.Fatalf("empty builder: want ErrIncomplete, got %v", err)
	}
	_ = b.StartArray()
	if _, err := b.Result(); !errors.Is(err, tree.ErrIncomplete) {
		t.Fatalf("open array: want ErrIncomplete, got %v", err)
	}
	_ = b.EndArray(0)
	_ = b.Bool(true)
	if diff := cmp.Diff([]any{[]any{}, true}, b.Results()); diff != "" {
		t.Fatalf("results (-want +got):\n%s", diff)
	}
}

func TestBuilder_RejectsMismatchedEnds(t *testing.T) {
	b := tree.New()
	_ = b.StartObject()
	if err := b.EndArray(0); err == nil {
		t.Fatal("EndArray closed an object")
	}
	if err := b.Null(); err == nil {
		t.Fatal("value without key accepted")
	}
}
