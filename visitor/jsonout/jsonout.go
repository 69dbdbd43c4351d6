// Package jsonout streams visitor events as JSON text.
package jsonout

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/domvisit"
	"github.com/reoring/domvisit/internal/stack"
)

var (
	errNoKey    = errors.New("jsonout: object member without key")
	errMismatch = errors.New("jsonout: end does not match open container")
)

// Options controls formatting.
type Options struct {
	// Indent enables multi-line output with this unit per level.
	Indent string
}

type level struct {
	isObj    bool
	count    int
	afterKey bool
}

// Writer is an Objects|Arrays visitor writing JSON. Each completed top-level
// value is followed by a newline. Call Flush when done.
type Writer struct {
	domvisit.Unsupported

	w      *bufio.Writer
	indent string
	open   *stack.Stack[level]
	err    error
}

var _ domvisit.Visitor = (*Writer)(nil)

func New(w io.Writer, opts ...Options) *Writer {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return &Writer{w: bufio.NewWriter(w), indent: opt.Indent, open: stack.New[level]()}
}

func (w *Writer) Flags() domvisit.Flags { return domvisit.FlagObjects | domvisit.FlagArrays }

// Flush writes buffered output and reports the first write error.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *Writer) write(s string) {
	if w.err == nil {
		_, w.err = w.w.WriteString(s)
	}
}

func (w *Writer) newline(depth int) {
	if w.indent != "" {
		w.write("\n" + strings.Repeat(w.indent, depth))
	}
}

// before positions the output for a value.
func (w *Writer) before() error {
	top := w.open.Top()
	switch {
	case top == nil:
		return nil
	case top.isObj:
		if !top.afterKey {
			return errNoKey
		}
		top.afterKey = false
	default:
		if top.count > 0 {
			w.write(",")
		}
		top.count++
		w.newline(w.open.Size())
	}
	return nil
}

// after terminates a top-level value.
func (w *Writer) after() error {
	if w.open.IsEmpty() {
		w.write("\n")
	}
	return w.err
}

func (w *Writer) scalar(text string) error {
	if err := w.before(); err != nil {
		return err
	}
	w.write(text)
	return w.after()
}

func (w *Writer) Null() error         { return w.scalar("null") }
func (w *Writer) Bool(v bool) error   { return w.scalar(strconv.FormatBool(v)) }
func (w *Writer) Int64(v int64) error { return w.scalar(strconv.FormatInt(v, 10)) }

func (w *Writer) Uint64(v uint64) error { return w.scalar(strconv.FormatUint(v, 10)) }

func (w *Writer) Double(v float64) error {
	b, err := j.Marshal(v)
	if err != nil {
		return err
	}
	return w.scalar(string(b))
}

func (w *Writer) String(s string, _ domvisit.Lifetime) error {
	b, err := j.MarshalWithOption(s, j.DisableHTMLEscape())
	if err != nil {
		return err
	}
	return w.scalar(string(b))
}

func (w *Writer) Key(k domvisit.Name) error {
	top := w.open.Top()
	if top == nil || !top.isObj || top.afterKey {
		return errNoKey
	}
	b, err := j.MarshalWithOption(k.String(), j.DisableHTMLEscape())
	if err != nil {
		return err
	}
	if top.count > 0 {
		w.write(",")
	}
	top.count++
	w.newline(w.open.Size())
	w.write(string(b))
	if w.indent != "" {
		w.write(": ")
	} else {
		w.write(":")
	}
	top.afterKey = true
	return w.err
}

func (w *Writer) start(isObj bool, open string) error {
	if err := w.before(); err != nil {
		return err
	}
	w.write(open)
	w.open.Push(level{isObj: isObj})
	return w.err
}

func (w *Writer) end(isObj bool, close string) error {
	top := w.open.Top()
	if top == nil || top.isObj != isObj || top.afterKey {
		return errMismatch
	}
	f, _ := w.open.Pop()
	if f.count > 0 {
		w.newline(w.open.Size())
	}
	w.write(close)
	return w.after()
}

func (w *Writer) StartObject() error     { return w.start(true, "{") }
func (w *Writer) EndObject(uint64) error { return w.end(true, "}") }
func (w *Writer) StartArray() error      { return w.start(false, "[") }
func (w *Writer) EndArray(uint64) error  { return w.end(false, "]") }
