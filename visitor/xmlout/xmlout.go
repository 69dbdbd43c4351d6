// Package xmlout writes node events as XML. Attributes are buffered on the
// open start tag until its first child arrives, so a node cannot gain
// attributes after content.
package xmlout

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"

	"github.com/reoring/domvisit"
	"github.com/reoring/domvisit/internal/stack"
	xmlsrc "github.com/reoring/domvisit/source/xml"
)

var (
	// ErrLateAttribute is returned for a Key after the node's first child.
	ErrLateAttribute = errors.New("xmlout: attribute after content")
	errMismatch      = errors.New("xmlout: end without open node")
)

// Options controls formatting.
type Options struct {
	Indent string
}

// Writer is a Nodes-only visitor. Call Flush when done.
type Writer struct {
	domvisit.Unsupported

	enc     *xml.Encoder
	pending *xml.StartElement
	attr    *xml.Name
	open    *stack.Stack[xml.Name]
}

var _ domvisit.Visitor = (*Writer)(nil)

func New(w io.Writer, opts ...Options) *Writer {
	enc := xml.NewEncoder(w)
	if len(opts) > 0 && opts[len(opts)-1].Indent != "" {
		enc.Indent("", opts[len(opts)-1].Indent)
	}
	return &Writer{enc: enc, open: stack.New[xml.Name]()}
}

func (w *Writer) Flags() domvisit.Flags { return domvisit.FlagNodes }

// Flush writes any buffered start tag and flushes the encoder.
func (w *Writer) Flush() error {
	if err := w.flushStart(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *Writer) flushStart() error {
	if w.pending == nil {
		return nil
	}
	start := *w.pending
	w.pending = nil
	return w.enc.EncodeToken(start)
}

func (w *Writer) text(s string) error {
	if w.attr != nil {
		w.pending.Attr = append(w.pending.Attr, xml.Attr{Name: *w.attr, Value: s})
		w.attr = nil
		return nil
	}
	if err := w.flushStart(); err != nil {
		return err
	}
	return w.enc.EncodeToken(xml.CharData(s))
}

func (w *Writer) Null() error            { return w.text("null") }
func (w *Writer) Bool(v bool) error      { return w.text(strconv.FormatBool(v)) }
func (w *Writer) Int64(v int64) error    { return w.text(strconv.FormatInt(v, 10)) }
func (w *Writer) Uint64(v uint64) error  { return w.text(strconv.FormatUint(v, 10)) }
func (w *Writer) Double(v float64) error { return w.text(strconv.FormatFloat(v, 'g', -1, 64)) }

func (w *Writer) String(s string, _ domvisit.Lifetime) error { return w.text(s) }

func (w *Writer) Key(k domvisit.Name) error {
	if w.pending == nil {
		return ErrLateAttribute
	}
	n := xmlsrc.ParseName(k.String())
	w.attr = &n
	return nil
}

func (w *Writer) StartNode(name domvisit.Name) error {
	if w.attr != nil {
		return ErrLateAttribute
	}
	if err := w.flushStart(); err != nil {
		return err
	}
	n := xmlsrc.ParseName(name.String())
	w.pending = &xml.StartElement{Name: n}
	w.open.Push(n)
	return nil
}

func (w *Writer) EndNode(uint64, uint64) error {
	n, ok := w.open.Pop()
	if !ok {
		return errMismatch
	}
	if err := w.flushStart(); err != nil {
		return err
	}
	return w.enc.EncodeToken(xml.EndElement{Name: n})
}
