// Package xml walks an XML document into a domvisit.Visitor as nodes.
//
// Elements become StartNode/EndNode pairs, attributes become Key followed by a
// RawValue, and non-blank character data becomes a RawValue element. Names in
// a namespace are written in Clark notation, {uri}local.
package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reoring/domvisit"
	"github.com/reoring/domvisit/internal/stack"
)

// ErrTooDeep is returned when element nesting exceeds Options.MaxDepth.
var ErrTooDeep = errors.New("xml: max depth exceeded")

// Options tunes the walk.
type Options struct {
	MaxDepth int
	// TextAsString emits character data as String instead of RawValue.
	TextAsString bool
	// ReservedNames reads Object, Array and Entry elements and the Key
	// attribute of an Entry as the synthetic names an adapter writes, so a
	// document serialized through nodes can be read back as objects and arrays.
	ReservedNames bool
}

type element struct {
	entry      bool
	object     bool
	attributes uint64
	elements   uint64
}

var reserved = map[string]domvisit.Name{
	domvisit.NameObject.String(): domvisit.NameObject,
	domvisit.NameArray.String():  domvisit.NameArray,
	domvisit.NameEntry.String():  domvisit.NameEntry,
}

func nodeName(n xml.Name, opt Options) domvisit.Name {
	if opt.ReservedNames && n.Space == "" {
		if r, ok := reserved[n.Local]; ok {
			return r
		}
	}
	return domvisit.NewName(FormatName(n))
}

// Walk replays the root element of r on v. Prolog, comments, processing
// instructions and directives are skipped.
func Walk(r io.Reader, v domvisit.Visitor, opts ...Options) error {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	dec := xml.NewDecoder(r)
	open := stack.New[element]()
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if opt.MaxDepth > 0 && open.Size() >= opt.MaxDepth {
				return fmt.Errorf("element %s: %w", FormatName(t.Name), ErrTooDeep)
			}
			if parent := open.Top(); parent != nil {
				parent.elements++
			}
			name := nodeName(t.Name, opt)
			if err := v.StartNode(name); err != nil {
				return err
			}
			e := element{entry: name == domvisit.NameEntry, object: name == domvisit.NameObject}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				e.attributes++
				if e.entry && a.Name == (xml.Name{Local: domvisit.NameKey.String()}) {
					err = v.Key(domvisit.NameKey)
					if err == nil {
						err = v.String(a.Value, domvisit.Temporary)
					}
				} else {
					err = v.Key(domvisit.NewName(FormatName(a.Name)))
					if err == nil {
						err = v.RawValue(a.Value, domvisit.Temporary)
					}
				}
				if err != nil {
					return err
				}
			}
			open.Push(e)
		case xml.EndElement:
			e, ok := open.Pop()
			if !ok {
				return fmt.Errorf("xml: unexpected end element %s", FormatName(t.Name))
			}
			// An empty entry held an empty string.
			if e.entry && e.elements == 0 {
				if err := v.String("", domvisit.Temporary); err != nil {
					return err
				}
				e.elements++
			}
			// Object members are its Entry children.
			if e.object {
				e.attributes, e.elements = e.elements, 0
			}
			if err := v.EndNode(e.attributes, e.elements); err != nil {
				return err
			}
			if open.IsEmpty() {
				return nil
			}
		case xml.CharData:
			parent := open.Top()
			if parent == nil {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			parent.elements++
			if opt.TextAsString {
				err = v.String(text, domvisit.Temporary)
			} else {
				err = v.RawValue(text, domvisit.Temporary)
			}
			if err != nil {
				return err
			}
		}
	}
}

// WalkBytes is Walk over an in-memory document.
func WalkBytes(b []byte, v domvisit.Visitor, opts ...Options) error {
	return Walk(bytes.NewReader(b), v, opts...)
}

// FormatName renders n as local or {space}local.
func FormatName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// ParseName reverses FormatName.
func ParseName(s string) xml.Name {
	if strings.HasPrefix(s, "{") {
		if i := strings.IndexByte(s, '}'); i > 0 {
			return xml.Name{Space: s[1:i], Local: s[i+1:]}
		}
	}
	return xml.Name{Local: s}
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}
