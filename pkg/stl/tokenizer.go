package stl

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Tokenizer splits an ASCII stream into whitespace-separated tokens and
// remembers the line each token started on.
type Tokenizer struct {
	r    *bufio.Reader
	tok  string
	line int // line of the current token
	next int // line of the read position
	err  error
}

// NewTokenizer returns a Tokenizer reading from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{r: bufio.NewReader(r), next: 1}
}

// Next advances to the next token. It returns false at end of input or on a
// read error; Err distinguishes the two.
func (t *Tokenizer) Next() bool {
	var sb strings.Builder
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			if err != io.EOF {
				t.err = err
			}
			break
		}
		if isSpace(b) {
			if b == '\n' {
				t.next++
			}
			if sb.Len() > 0 {
				break
			}
			continue
		}
		if sb.Len() == 0 {
			t.line = t.next
		}
		sb.WriteByte(b)
	}
	t.tok = sb.String()
	return t.tok != ""
}

// Token returns the current token.
func (t *Tokenizer) Token() string {
	return t.tok
}

// Line returns the 1-based line of the current token.
func (t *Tokenizer) Line() int {
	return t.line
}

// Equals reports whether the current token is s.
func (t *Tokenizer) Equals(s string) bool {
	return t.tok == s
}

// Expecting advances and reports whether the new token is s.
func (t *Tokenizer) Expecting(s string) bool {
	return t.Next() && t.Equals(s)
}

// Float advances and parses the new token as a float.
func (t *Tokenizer) Float() (float32, bool) {
	if !t.Next() {
		return 0, false
	}
	f, err := strconv.ParseFloat(t.tok, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// Err returns the first non-EOF read error.
func (t *Tokenizer) Err() error {
	return t.err
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
