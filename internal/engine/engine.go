package engine

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/reoring/domvisit"
	"github.com/reoring/domvisit/internal/stack"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// NumberMode controls how number tokens reach the visitor.
type NumberMode int

const (
	// NumberTyped parses numbers into Int64, Uint64, or Double events.
	NumberTyped NumberMode = iota
	// NumberRaw forwards the number text as a RawValue.
	NumberRaw
)

// ErrUnexpectedToken reports a token that cannot appear at its position.
var ErrUnexpectedToken = errors.New("engine: unexpected token")

type walkFrame struct {
	kind  Kind
	count uint64
}

// Walk reads one complete value from src and replays it on v. It stops at the
// first error from either side. io.EOF means src ended before the value began;
// ending inside a value is io.ErrUnexpectedEOF.
func Walk(src TokenSource, v domvisit.Visitor, mode NumberMode) error {
	frames := stack.New[walkFrame]()
	started := false
	for {
		tok, err := src.NextToken()
		if err != nil {
			if err == io.EOF && started {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		started = true

		top := frames.Top()
		if top != nil && top.kind == KindBeginArray && tok.Kind != KindEndArray {
			top.count++
		}

		switch tok.Kind {
		case KindBeginObject:
			frames.Push(walkFrame{kind: KindBeginObject})
			err = v.StartObject()
		case KindBeginArray:
			frames.Push(walkFrame{kind: KindBeginArray})
			err = v.StartArray()
		case KindEndObject, KindEndArray:
			want := KindBeginObject
			if tok.Kind == KindEndArray {
				want = KindBeginArray
			}
			f, ok := frames.Pop()
			if !ok || f.kind != want {
				return ErrUnexpectedToken
			}
			if want == KindBeginObject {
				err = v.EndObject(f.count)
			} else {
				err = v.EndArray(f.count)
			}
		case KindKey:
			if top == nil || top.kind != KindBeginObject {
				return ErrUnexpectedToken
			}
			top.count++
			err = v.Key(domvisit.NewName(tok.String))
		case KindString:
			err = v.String(tok.String, domvisit.Temporary)
		case KindNumber:
			err = emitNumber(v, tok.Number, mode)
		case KindBool:
			err = v.Bool(tok.Bool)
		case KindNull:
			err = v.Null()
		default:
			return ErrUnexpectedToken
		}
		if err != nil {
			return err
		}
		if frames.IsEmpty() && tok.Kind != KindKey {
			return nil
		}
	}
}

func emitNumber(v domvisit.Visitor, text string, mode NumberMode) error {
	if mode == NumberRaw {
		return v.RawValue(text, domvisit.Temporary)
	}
	if !strings.ContainsAny(text, ".eE") {
		if strings.HasPrefix(text, "-") {
			if n, err := strconv.ParseInt(text, 10, 64); err == nil {
				return v.Int64(n)
			}
		} else if n, err := strconv.ParseUint(text, 10, 64); err == nil {
			return v.Uint64(n)
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return err
	}
	return v.Double(f)
}
