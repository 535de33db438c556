// Package prefilter narrows the byte offsets a regex matcher needs to
// attempt, using literal substrings a compiled pattern requires at its
// start. It never decides a match by itself: callers still verify the
// full pattern with the backtracking VM at each candidate offset.
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"
)

// Scanner reports candidate start offsets for a pattern's required
// literal(s).
type Scanner interface {
	// Next returns the offset of the first candidate position at or
	// after at, or ok=false once no candidate remains in haystack.
	Next(haystack []byte, at int) (pos int, ok bool)
}

// literalScanner is a Scanner for a single mandatory literal, such as the
// literal prefix of `hello.*world`.
type literalScanner struct {
	lit []byte
}

// NewLiteral builds a Scanner for one literal substring that must occur
// at any successful match's start.
func NewLiteral(lit []byte) Scanner {
	return literalScanner{lit: append([]byte(nil), lit...)}
}

func (s literalScanner) Next(haystack []byte, at int) (int, bool) {
	if at > len(haystack) {
		return 0, false
	}
	idx := bytes.Index(haystack[at:], s.lit)
	if idx < 0 {
		return 0, false
	}
	return at + idx, true
}

// setScanner is a Scanner backed by an Aho-Corasick automaton, for
// patterns whose top-level alternatives are all fixed literals (e.g.
// `cat|dog|cow`): any match must begin with one of them.
type setScanner struct {
	automaton *ahocorasick.Automaton
}

// NewSet builds a Scanner over multiple literal alternatives, one of
// which must occur at any successful match's start.
func NewSet(lits [][]byte) (Scanner, error) {
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		builder.AddPattern(lit)
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return setScanner{automaton: automaton}, nil
}

func (s setScanner) Next(haystack []byte, at int) (int, bool) {
	if at > len(haystack) {
		return 0, false
	}
	m := s.automaton.Find(haystack, at)
	if m == nil {
		return 0, false
	}
	return m.Start, true
}
