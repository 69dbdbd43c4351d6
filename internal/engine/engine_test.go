package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/reoring/domvisit"
	"github.com/reoring/domvisit/visitor/trace"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

func TestWalk_StopsAfterOneValue(t *testing.T) {
	src := &sliceSource{toks: []Token{
		{Kind: KindBeginArray},
		{Kind: KindNumber, Number: "1"},
		{Kind: KindEndArray},
		{Kind: KindNull},
	}}
	rec := trace.New(domvisit.FlagAll)
	if err := Walk(src, rec, NumberTyped); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(rec.Events) != 3 {
		t.Fatalf("want 3 events, got %v", rec.Strings())
	}
	if src.i != 3 {
		t.Fatalf("walk consumed %d tokens, want 3", src.i)
	}
}

func TestWalk_MismatchedEnd(t *testing.T) {
	src := &sliceSource{toks: []Token{{Kind: KindBeginArray}, {Kind: KindEndObject}}}
	err := Walk(src, trace.New(domvisit.FlagAll), NumberTyped)
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("want ErrUnexpectedToken, got %v", err)
	}
}

func TestWalk_VisitorErrorStops(t *testing.T) {
	src := &sliceSource{toks: []Token{{Kind: KindBeginArray}, {Kind: KindNull}, {Kind: KindNull}, {Kind: KindEndArray}}}
	rec := trace.New(domvisit.FlagAll)
	rec.FailOn = map[trace.Op]bool{trace.OpNull: true}
	if err := Walk(src, rec, NumberTyped); !errors.Is(err, trace.ErrInjected) {
		t.Fatalf("want injected error, got %v", err)
	}
	if len(rec.Events) != 2 {
		t.Fatalf("walk continued after failure: %v", rec.Strings())
	}
}

func TestEnforcement_MaxBytes(t *testing.T) {
	src := WrapWithEnforcement(&sliceSource{toks: []Token{
		{Kind: KindBeginArray},
		{Kind: KindNull},
		{Kind: KindNull},
		{Kind: KindEndArray},
	}}, EnforceOptions{MaxBytes: 2})
	err := Walk(src, trace.New(domvisit.FlagAll), NumberTyped)
	var iss *IssueError
	if !errors.As(err, &iss) || iss.Code != CodeTruncated {
		t.Fatalf("want truncated issue, got %v", err)
	}
}

func TestWrapWithEnforcement_DisabledReturnsInner(t *testing.T) {
	inner := &sliceSource{}
	if got := WrapWithEnforcement(inner, EnforceOptions{}); got != TokenSource(inner) {
		t.Fatal("disabled enforcement should not wrap")
	}
}

func TestWalk_EOFBeforeValue(t *testing.T) {
	if err := Walk(&sliceSource{}, trace.New(domvisit.FlagAll), NumberTyped); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
	src := &sliceSource{toks: []Token{{Kind: KindBeginObject}, {Kind: KindKey, String: "a"}}}
	if err := Walk(src, trace.New(domvisit.FlagAll), NumberTyped); err != io.ErrUnexpectedEOF {
		t.Fatalf("want io.ErrUnexpectedEOF, got %v", err)
	}
}
