// Package json walks JSON documents into a domvisit.Visitor using the
// goccy/go-json tokenizer.
package json

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/domvisit"
	eng "github.com/reoring/domvisit/internal/engine"
)

// Options tunes the walk. The zero value applies no limits and parses numbers.
type Options struct {
	// RawNumbers forwards number text as RawValue instead of typed events.
	RawNumbers          bool
	RejectDuplicateKeys bool
	MaxDepth            int
	MaxBytes            int64
}

func prepare(r io.Reader, opts []Options) (eng.TokenSource, eng.NumberMode) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	src := eng.WrapWithEnforcement(NewReader(r), eng.EnforceOptions{
		RejectDuplicateKeys: opt.RejectDuplicateKeys,
		MaxDepth:            opt.MaxDepth,
		MaxBytes:            opt.MaxBytes,
	})
	mode := eng.NumberTyped
	if opt.RawNumbers {
		mode = eng.NumberRaw
	}
	return src, mode
}

// Walk reads one JSON value from r and replays it on v.
func Walk(r io.Reader, v domvisit.Visitor, opts ...Options) error {
	src, mode := prepare(r, opts)
	if err := eng.Walk(src, v, mode); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// WalkAll replays a stream of concatenated or newline-delimited JSON values
// as one array.
func WalkAll(r io.Reader, v domvisit.Visitor, opts ...Options) error {
	src, mode := prepare(r, opts)
	if err := v.StartArray(); err != nil {
		return err
	}
	var n uint64
	for {
		err := eng.Walk(src, v, mode)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("value %d: %w", n, err)
		}
		n++
	}
	return v.EndArray(n)
}

// WalkBytes is Walk over an in-memory document.
func WalkBytes(b []byte, v domvisit.Visitor, opts ...Options) error {
	return Walk(bytes.NewReader(b), v, opts...)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec        *j.Decoder
	stack      []frame
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec, lastOffset: -1}
}

// valueDone flips the enclosing object back to expecting a key.
func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()
	off := s.lastOffset
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case '}', ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.valueDone()
			kind := eng.KindEndObject
			if v == ']' {
				kind = eng.KindEndArray
			}
			return eng.Token{Kind: kind, Offset: off}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return eng.Token{Kind: eng.KindKey, String: v, Offset: off}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: off}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		s.valueDone()
		// go-json hands out number text aliasing its read buffer.
		return eng.Token{Kind: eng.KindNumber, Number: strings.Clone(string(v)), Offset: off}, nil
	case float64:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

func (s *source) Location() int64 { return s.lastOffset }
