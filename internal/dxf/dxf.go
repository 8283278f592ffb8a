// Package dxf reads and writes a minimal DXF interchange subset: the
// LAYER table plus LINE, CIRCLE, ARC, LWPOLYLINE, POINT, ELLIPSE,
// SPLINE, TEXT and MTEXT entity records. Unsupported records are
// skipped with a warning, never fatally. Colors map through the fixed
// AutoCAD Color Index palette.
package dxf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformed marks a stream that is not group-code structured.
var ErrMalformed = errors.New("dxf: malformed input")

// pair is one DXF group: an integer code and its value line.
type pair struct {
	code  int
	value string
}

// scanner reads group pairs off a DXF stream.
type scanner struct {
	s    *bufio.Scanner
	line int
}

func newScanner(r io.Reader) *scanner {
	return &scanner{s: bufio.NewScanner(r)}
}

// next reads one code/value pair. io.EOF signals a clean end between
// pairs.
func (sc *scanner) next() (pair, error) {
	if !sc.s.Scan() {
		if err := sc.s.Err(); err != nil {
			return pair{}, err
		}
		return pair{}, io.EOF
	}
	sc.line++
	code, err := strconv.Atoi(strings.TrimSpace(sc.s.Text()))
	if err != nil {
		return pair{}, fmt.Errorf("%w: line %d: group code %q", ErrMalformed, sc.line, sc.s.Text())
	}
	if !sc.s.Scan() {
		return pair{}, fmt.Errorf("%w: line %d: group code %d without a value", ErrMalformed, sc.line, code)
	}
	sc.line++
	return pair{code: code, value: strings.TrimSpace(sc.s.Text())}, nil
}

// writer emits group pairs.
type writer struct {
	w   *bufio.Writer
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{w: bufio.NewWriter(w)}
}

func (dw *writer) pair(code int, value string) {
	if dw.err != nil {
		return
	}
	_, dw.err = fmt.Fprintf(dw.w, "%d\n%s\n", code, value)
}

func (dw *writer) float(code int, v float64) {
	dw.pair(code, strconv.FormatFloat(v, 'f', -1, 64))
}

func (dw *writer) int(code, v int) {
	dw.pair(code, strconv.Itoa(v))
}

func (dw *writer) flush() error {
	if dw.err != nil {
		return dw.err
	}
	return dw.w.Flush()
}
