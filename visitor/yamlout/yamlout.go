// Package yamlout writes visitor events as YAML documents, one per top-level
// value. Raw text is kept verbatim as plain scalars.
package yamlout

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/domvisit"
	"github.com/reoring/domvisit/internal/stack"
)

var (
	errNoKey    = errors.New("yamlout: object member without key")
	errMismatch = errors.New("yamlout: end does not match open container")
)

// Writer is an Objects|Arrays|RawValues|RawKeys visitor. Call Close when done.
type Writer struct {
	domvisit.Unsupported

	enc  *yaml.Encoder
	open *stack.Stack[*containerState]
}

type containerState struct {
	node     *yaml.Node
	afterKey bool
}

var _ domvisit.Visitor = (*Writer)(nil)

func New(w io.Writer) *Writer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &Writer{enc: enc, open: stack.New[*containerState]()}
}

func (w *Writer) Flags() domvisit.Flags {
	return domvisit.FlagObjects | domvisit.FlagArrays | domvisit.FlagRawValues | domvisit.FlagRawKeys
}

// Close flushes the encoder.
func (w *Writer) Close() error { return w.enc.Close() }

func (w *Writer) add(n *yaml.Node) error {
	top, ok := w.open.Peek()
	if !ok {
		return w.enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{n}})
	}
	if top.node.Kind == yaml.MappingNode {
		if !top.afterKey {
			return errNoKey
		}
		top.afterKey = false
	}
	top.node.Content = append(top.node.Content, n)
	return nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (w *Writer) Null() error         { return w.add(scalar("!!null", "null")) }
func (w *Writer) Bool(v bool) error   { return w.add(scalar("!!bool", strconv.FormatBool(v))) }
func (w *Writer) Int64(v int64) error { return w.add(scalar("!!int", strconv.FormatInt(v, 10))) }

func (w *Writer) Uint64(v uint64) error {
	return w.add(scalar("!!int", strconv.FormatUint(v, 10)))
}

func (w *Writer) Double(v float64) error { return w.add(scalar("!!float", formatFloat(v))) }

func (w *Writer) String(s string, _ domvisit.Lifetime) error {
	return w.add(scalar("!!str", s))
}

func (w *Writer) RawValue(s string, _ domvisit.Lifetime) error {
	return w.add(scalar("", s))
}

func (w *Writer) key(n *yaml.Node) error {
	top, ok := w.open.Peek()
	if !ok || top.node.Kind != yaml.MappingNode || top.afterKey {
		return errNoKey
	}
	top.node.Content = append(top.node.Content, n)
	top.afterKey = true
	return nil
}

func (w *Writer) Key(k domvisit.Name) error { return w.key(scalar("!!str", k.String())) }

func (w *Writer) RawKey(s string, _ domvisit.Lifetime) error { return w.key(scalar("", s)) }

func (w *Writer) start(kind yaml.Kind, tag string) error {
	w.open.Push(&containerState{node: &yaml.Node{Kind: kind, Tag: tag}})
	return nil
}

func (w *Writer) end(kind yaml.Kind) error {
	top, ok := w.open.Peek()
	if !ok || top.node.Kind != kind || top.afterKey {
		return errMismatch
	}
	w.open.Pop()
	n := top.node
	if len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
	}
	return w.add(n)
}

func (w *Writer) StartObject() error     { return w.start(yaml.MappingNode, "!!map") }
func (w *Writer) EndObject(uint64) error { return w.end(yaml.MappingNode) }
func (w *Writer) StartArray() error      { return w.start(yaml.SequenceNode, "!!seq") }
func (w *Writer) EndArray(uint64) error  { return w.end(yaml.SequenceNode) }

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	case math.IsNaN(v):
		return ".nan"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
