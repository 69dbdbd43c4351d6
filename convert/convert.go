// Package convert wires sources, an adapter and writers into whole-document
// conversions between JSON, YAML and XML.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/tliron/commonlog"

	"github.com/reoring/domvisit"
	jsonsrc "github.com/reoring/domvisit/source/json"
	xmlsrc "github.com/reoring/domvisit/source/xml"
	yamlsrc "github.com/reoring/domvisit/source/yaml"
	"github.com/reoring/domvisit/visitor/jsonout"
	"github.com/reoring/domvisit/visitor/trace"
	"github.com/reoring/domvisit/visitor/tree"
	"github.com/reoring/domvisit/visitor/xmlout"
	"github.com/reoring/domvisit/visitor/yamlout"
)

// Format names a document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
	// FormatTree materializes the document and prints it as indented JSON.
	// Output only.
	FormatTree Format = "tree"
)

// ErrUnknownFormat is returned for unsupported format names or directions.
var ErrUnknownFormat = errors.New("convert: unknown format")

// ParseFormat accepts a format name, case-insensitively. "yml" is an alias.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatXML, FormatTree:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options configures one conversion.
type Options struct {
	// Indent is the per-level indent of JSON and XML output; empty is compact.
	Indent string
	// RawNumbers hands JSON numbers downstream as raw text.
	RawNumbers bool
	// AllDocuments reads every YAML document, or every value of a JSON
	// stream, as one array.
	AllDocuments bool
	// ReservedNames reads Object, Array and Entry elements in XML input as
	// the structures an adapter writes them for.
	ReservedNames bool
	MaxDepth      int
	Logger        commonlog.Logger
}

func pick(opts []Options) Options {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return Options{}
}

// WalkFunc replays one document read from r on v.
type WalkFunc func(r io.Reader, v domvisit.Visitor) error

// Source returns the producer for from.
func Source(from Format, opts ...Options) (WalkFunc, error) {
	opt := pick(opts)
	switch from {
	case FormatJSON:
		jo := jsonsrc.Options{RawNumbers: opt.RawNumbers, MaxDepth: opt.MaxDepth}
		if opt.AllDocuments {
			return func(r io.Reader, v domvisit.Visitor) error { return jsonsrc.WalkAll(r, v, jo) }, nil
		}
		return func(r io.Reader, v domvisit.Visitor) error { return jsonsrc.Walk(r, v, jo) }, nil
	case FormatYAML:
		yo := yamlsrc.Options{MaxDepth: opt.MaxDepth}
		if opt.AllDocuments {
			return func(r io.Reader, v domvisit.Visitor) error { return yamlsrc.WalkAll(r, v, yo) }, nil
		}
		return func(r io.Reader, v domvisit.Visitor) error { return yamlsrc.Walk(r, v, yo) }, nil
	case FormatXML:
		xo := xmlsrc.Options{MaxDepth: opt.MaxDepth, ReservedNames: opt.ReservedNames}
		return func(r io.Reader, v domvisit.Visitor) error { return xmlsrc.Walk(r, v, xo) }, nil
	}
	return nil, fmt.Errorf("%w: cannot read %q", ErrUnknownFormat, from)
}

// Sink returns the writer for to and the function completing its output.
func Sink(to Format, w io.Writer, opts ...Options) (domvisit.Visitor, func() error, error) {
	opt := pick(opts)
	switch to {
	case FormatJSON:
		jw := jsonout.New(w, jsonout.Options{Indent: opt.Indent})
		return jw, jw.Flush, nil
	case FormatYAML:
		yw := yamlout.New(w)
		return yw, yw.Close, nil
	case FormatXML:
		xw := xmlout.New(w, xmlout.Options{Indent: opt.Indent})
		return xw, func() error {
			if err := xw.Flush(); err != nil {
				return err
			}
			_, err := io.WriteString(w, "\n")
			return err
		}, nil
	case FormatTree:
		b := tree.New()
		return b, func() error {
			res, err := b.Result()
			if err != nil {
				return err
			}
			indent := opt.Indent
			if indent == "" {
				indent = "  "
			}
			out, err := j.MarshalIndent(res, "", indent)
			if err != nil {
				return err
			}
			_, err = w.Write(append(out, '\n'))
			return err
		}, nil
	}
	return nil, nil, fmt.Errorf("%w: cannot write %q", ErrUnknownFormat, to)
}

// Convert reads one document from r as from and writes it to w as to.
func Convert(r io.Reader, w io.Writer, from, to Format, opts ...Options) error {
	opt := pick(opts)
	walk, err := Source(from, opt)
	if err != nil {
		return err
	}
	sink, finish, err := Sink(to, w, opt)
	if err != nil {
		return err
	}
	a, err := domvisit.NewAdapter(sink, domvisit.Options{Logger: opt.Logger})
	if err != nil {
		return err
	}
	if err := walk(r, a); err != nil {
		return fmt.Errorf("%s to %s: %w", from, to, err)
	}
	if a.Depth() != 0 {
		return &domvisit.OpError{Op: "convert", Err: domvisit.ErrUnbalanced}
	}
	return finish()
}

// ConvertBytes is Convert over an in-memory document.
func ConvertBytes(in []byte, from, to Format, opts ...Options) ([]byte, error) {
	var out bytes.Buffer
	if err := Convert(bytes.NewReader(in), &out, from, to, opts...); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Trace writes the events reaching a recorder that natively supports caps.
func Trace(r io.Reader, w io.Writer, from Format, caps domvisit.Flags, opts ...Options) error {
	opt := pick(opts)
	walk, err := Source(from, opt)
	if err != nil {
		return err
	}
	rec := trace.New(caps)
	a, err := domvisit.NewAdapter(rec, domvisit.Options{Logger: opt.Logger})
	if err != nil {
		return err
	}
	if err := walk(r, a); err != nil {
		return fmt.Errorf("%s trace: %w", from, err)
	}
	if a.Depth() != 0 {
		return &domvisit.OpError{Op: "trace", Err: domvisit.ErrUnbalanced}
	}
	_, err = rec.WriteTo(w)
	return err
}
