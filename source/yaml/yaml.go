// Package yaml walks YAML documents into a domvisit.Visitor.
//
// Plain scalars keep their source text and reach the visitor as RawValue;
// quoted, block and explicitly !!str tagged scalars are strings. Plain mapping
// keys arrive as RawKey, quoted ones as Key. Aliases are expanded in place,
// bounded by Options.MaxAliasNodes per document. Merge keys (<<) are applied:
// explicit keys win over merged ones, and earlier merge sources win over later.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reoring/domvisit"
)

// ErrComplexKey is returned for mapping keys that are not scalars.
var ErrComplexKey = errors.New("yaml: non-scalar mapping key")

var (
	// ErrTooDeep is returned when nesting, including alias expansion, exceeds Options.MaxDepth.
	ErrTooDeep = errors.New("yaml: max depth exceeded")
	// ErrAliasBudget is returned when alias expansion visits more than Options.MaxAliasNodes nodes.
	ErrAliasBudget = errors.New("yaml: alias expansion budget exceeded")
	// ErrMerge is returned for a merge key whose value is not a mapping or a sequence of mappings.
	ErrMerge = errors.New("yaml: merge value is not a mapping")
)

// Options tunes the walk.
type Options struct {
	// MaxDepth bounds nesting; zero means DefaultMaxDepth.
	MaxDepth int
	// MaxAliasNodes bounds the nodes replayed through aliases in one
	// document; zero means DefaultMaxAliasNodes.
	MaxAliasNodes int
}

const (
	DefaultMaxDepth      = 512
	DefaultMaxAliasNodes = 1 << 20
)

func pick(opts []Options) Options {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxAliasNodes <= 0 {
		o.MaxAliasNodes = DefaultMaxAliasNodes
	}
	return o
}

// Walk replays the first document of r on v.
func Walk(r io.Reader, v domvisit.Visitor, opts ...Options) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return WalkNode(&doc, v, opts...)
}

// WalkBytes is Walk over an in-memory document.
func WalkBytes(b []byte, v domvisit.Visitor, opts ...Options) error {
	return Walk(bytes.NewReader(b), v, opts...)
}

// WalkAll replays every document of a multi-document stream as one array.
func WalkAll(r io.Reader, v domvisit.Visitor, opts ...Options) error {
	dec := yaml.NewDecoder(r)
	if err := v.StartArray(); err != nil {
		return err
	}
	var n uint64
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := WalkNode(&doc, v, opts...); err != nil {
			return fmt.Errorf("document %d: %w", n, err)
		}
		n++
	}
	return v.EndArray(n)
}

// WalkNode replays a decoded node tree on v.
func WalkNode(n *yaml.Node, v domvisit.Visitor, opts ...Options) error {
	o := pick(opts)
	w := walker{v: v, max: o.MaxDepth, budget: o.MaxAliasNodes}
	return w.node(n, 0)
}

type walker struct {
	v   domvisit.Visitor
	max int

	// aliased is non-zero while replaying an alias target.
	aliased int
	budget  int
}

func (w *walker) node(n *yaml.Node, depth int) error {
	if depth > w.max {
		return ErrTooDeep
	}
	if w.aliased > 0 {
		if w.budget--; w.budget < 0 {
			return ErrAliasBudget
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return w.v.Null()
		}
		return w.node(n.Content[0], depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return fmt.Errorf("yaml: unresolved alias %q at line %d", n.Value, n.Line)
		}
		w.aliased++
		defer func() { w.aliased-- }()
		return w.node(n.Alias, depth+1)
	case yaml.MappingNode:
		return w.mapping(n, depth)
	case yaml.SequenceNode:
		if err := w.v.StartArray(); err != nil {
			return err
		}
		for _, c := range n.Content {
			if err := w.node(c, depth+1); err != nil {
				return err
			}
		}
		return w.v.EndArray(uint64(len(n.Content)))
	case yaml.ScalarNode:
		if isString(n) {
			return w.v.String(n.Value, domvisit.Persistent)
		}
		return w.v.RawValue(n.Value, domvisit.Persistent)
	}
	return fmt.Errorf("yaml: unexpected node kind %d at line %d", n.Kind, n.Line)
}

// pair is one mapping member; merged marks members taken from an alias
// through a merge key.
type pair struct {
	key, value *yaml.Node
	merged     bool
}

func (w *walker) mapping(n *yaml.Node, depth int) error {
	pairs, err := w.members(n, depth)
	if err != nil {
		return err
	}
	if err := w.v.StartObject(); err != nil {
		return err
	}
	for _, p := range pairs {
		var err error
		if isString(p.key) {
			err = w.v.Key(domvisit.NewName(p.key.Value))
		} else {
			err = w.v.RawKey(p.key.Value, domvisit.Persistent)
		}
		if err != nil {
			return err
		}
		if p.merged {
			w.aliased++
		}
		err = w.node(p.value, depth+1)
		if p.merged {
			w.aliased--
		}
		if err != nil {
			return err
		}
	}
	return w.v.EndObject(uint64(len(pairs)))
}

// members lists the members of a mapping with merge keys applied. Merged
// members count against the alias budget.
func (w *walker) members(n *yaml.Node, depth int) ([]pair, error) {
	if depth > w.max {
		return nil, ErrTooDeep
	}
	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolve(n.Content[i])
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %w", k.Line, ErrComplexKey)
		}
		if !isMerge(k) {
			explicit[k.Value] = true
		}
	}

	out := make([]pair, 0, len(n.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolve(n.Content[i])
		if !isMerge(k) {
			out = append(out, pair{key: k, value: n.Content[i+1]})
			continue
		}
		var sources []*yaml.Node
		switch v := resolve(n.Content[i+1]); v.Kind {
		case yaml.MappingNode:
			sources = []*yaml.Node{v}
		case yaml.SequenceNode:
			for _, c := range v.Content {
				sources = append(sources, resolve(c))
			}
		default:
			return nil, fmt.Errorf("line %d: %w", v.Line, ErrMerge)
		}
		for _, src := range sources {
			if src.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: %w", src.Line, ErrMerge)
			}
			merged, err := w.members(src, depth+1)
			if err != nil {
				return nil, err
			}
			for _, p := range merged {
				if w.budget--; w.budget < 0 {
					return nil, ErrAliasBudget
				}
				if explicit[p.key.Value] || seen[p.key.Value] {
					continue
				}
				seen[p.key.Value] = true
				p.merged = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isMerge(k *yaml.Node) bool {
	if k.Kind != yaml.ScalarNode || k.Value != "<<" || isString(k) {
		return false
	}
	return k.Tag == "" || k.Tag == "!" || k.Tag == "!!merge"
}

// isString reports whether a scalar was written so that its text is already
// a string rather than an untyped literal.
func isString(n *yaml.Node) bool {
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return true
	}
	return n.Style&yaml.TaggedStyle != 0 && n.Tag == "!!str"
}
