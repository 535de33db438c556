package regex

import "github.com/vhollow/vgrep/internal/conv"

// compiler is a one-pass recursive-descent parser with a cursor into src.
// It emits an instruction graph embedded in an array (see instruction.go)
// rather than a pointer-linked tree: forward jumps needed by alternation
// and quantifier closure are patched by index after the fact, and the
// finished program is two flat slices that Regex.Recompile swaps in whole.
type compiler struct {
	src          []byte
	pos          int
	instructions []instruction
	patterns     []pattern
	groupCount   int
}

// compile parses src according to the grammar given on the compile*
// methods below and
// returns the emitted program, or the first error encountered.
func compile(src []byte) ([]instruction, []pattern, int, error) {
	c := &compiler{
		src:          src,
		instructions: []instruction{{op: opNil}},
	}

	if b, ok := c.peek(); ok && b == '^' {
		c.advance()
		c.emit(instruction{op: opAssert, anchor: anchorStartLineOrString})
	}

	if err := c.compileAlternation(); err != nil {
		return nil, nil, 0, err
	}

	if _, ok := c.peek(); ok {
		// A concat/alternation rule stops at an unconsumed ')' or '|' that
		// doesn't belong to it; at the top level that means a stray
		// closing paren with no matching '('.
		return nil, nil, 0, c.errf(ErrMissingParen)
	}

	// End has no successor, so it bypasses emit's fall-through default
	// and keeps next at 0.
	c.instructions = append(c.instructions, instruction{op: opEnd})
	return c.instructions, c.patterns, c.groupCount, nil
}

// --- cursor ---

func (c *compiler) peek() (byte, bool) {
	if c.pos >= len(c.src) {
		return 0, false
	}
	return c.src[c.pos], true
}

// peekAt looks ahead offset bytes from the cursor without consuming.
func (c *compiler) peekAt(offset int) (byte, bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0, false
	}
	return c.src[i], true
}

func (c *compiler) advance() (byte, bool) {
	b, ok := c.peek()
	if ok {
		c.pos++
	}
	return b, ok
}

func (c *compiler) errf(err error) *CompileError {
	return &CompileError{Pos: c.pos, Err: err}
}

// --- emission ---

// emit appends inst to the program and returns its index. When the caller
// leaves Next unset (zero), it defaults to the index of the instruction
// that will be appended next: ordinary sequencing falls straight through
// the array, and only alternation/quantifier jumps need to override it.
func (c *compiler) emit(inst instruction) uint32 {
	idx := conv.IntToUint32(len(c.instructions))
	if inst.next == 0 {
		inst.next = idx + 1
	}
	c.instructions = append(c.instructions, inst)
	return idx
}

func (c *compiler) addPattern(p pattern) uint32 {
	idx := conv.IntToUint32(len(c.patterns))
	c.patterns = append(c.patterns, p)
	return idx
}

func (c *compiler) emitMatch(p pattern) uint32 {
	return c.emit(instruction{op: opMatch, patternIdx: c.addPattern(p)})
}

func (c *compiler) emitAssert(kind anchorKind) uint32 {
	return c.emit(instruction{op: opAssert, anchor: kind})
}

// --- grammar ---

// compileAlternation implements:
//
//	alternation := concat ( '|' concat )*
//
// A Split is always emitted up front, even when no '|' follows: every
// choice the parser sees compiles down to Split nodes, so a plain concat
// is simply an alternation whose Split's alt branch is never taken
// (alt stays 0, the universal "fail" sentinel).
func (c *compiler) compileAlternation() error {
	splitIdx := c.emit(instruction{op: opSplit})

	if err := c.compileConcat(); err != nil {
		return err
	}
	lastLeftIdx := conv.IntToUint32(len(c.instructions) - 1)

	if b, ok := c.peek(); ok && b == '|' {
		c.instructions[splitIdx].alt = conv.IntToUint32(len(c.instructions))
		c.advance()

		if err := c.compileAlternation(); err != nil {
			return err
		}
		mergeAt := conv.IntToUint32(len(c.instructions))
		c.instructions[lastLeftIdx].next = mergeAt
	}

	return nil
}

// compileConcat implements:
//
//	concat := repetition*
//
// stopping at '|', ')', or end of input, all of which belong to an
// enclosing rule.
func (c *compiler) compileConcat() error {
	for {
		b, ok := c.peek()
		if !ok || b == '|' || b == ')' {
			return nil
		}
		if err := c.compileRepetition(); err != nil {
			return err
		}
	}
}

// compileRepetition implements:
//
//	repetition := atom [ '+' | '?' | '*' ]
//
// startIdx is the index at which the atom began emitting: for a plain
// atom that's the atom's own instruction; for a character group or
// capture group it's the leading Split/GroupStart, so the quantifier acts
// over the whole subexpression.
func (c *compiler) compileRepetition() error {
	startIdx, err := c.compileAtom()
	if err != nil {
		return err
	}

	b, ok := c.peek()
	if !ok {
		return nil
	}

	switch b {
	case '+':
		c.advance()
		// Greedy: try the loopback (next) before falling through (alt).
		c.emit(instruction{op: opSplit, next: startIdx, alt: conv.IntToUint32(len(c.instructions) + 1)})
	case '?':
		c.advance()
		// The atom's own alt was 0 (unused); patching it to "whatever
		// comes next" makes the atom skippable.
		c.instructions[startIdx].alt = conv.IntToUint32(len(c.instructions))
	case '*':
		c.advance()
		skip := conv.IntToUint32(len(c.instructions) + 1)
		c.instructions[startIdx].alt = skip
		c.emit(instruction{op: opSplit, next: startIdx, alt: skip})
	}

	return nil
}

// compileAtom implements:
//
//	atom := escape | char_group | capture | '.' | '$' | literal
//
// plus the '^' special case, which is only legal as the very first byte
// of the whole source (handled by compile, not here).
func (c *compiler) compileAtom() (uint32, error) {
	b, ok := c.peek()
	if !ok {
		return 0, c.errf(ErrUnexpectedEOF)
	}

	switch b {
	case '+', '?', '*':
		return 0, c.errf(ErrMissingRepeatArgument)
	case '\\':
		return c.compileEscape(false)
	case '[':
		return c.compileCharGroup()
	case '(':
		return c.compileCapture()
	case '.':
		c.advance()
		return c.emitMatch(funcPattern("is_any", isAny)), nil
	case '$':
		c.advance()
		if c.pos != len(c.src) {
			return 0, c.errf(ErrUnsupportedClass)
		}
		return c.emitAssert(anchorEndLineOrString), nil
	case '^':
		return 0, c.errf(ErrUnsupportedClass)
	default:
		c.advance()
		return c.emitMatch(charPattern(b)), nil
	}
}

// compileEscape implements the escape production. inGroup is unused by
// the grammar itself but documents that the same table drives both
// top-level escapes and character-group items.
func (c *compiler) compileEscape(inGroup bool) (uint32, error) {
	c.advance() // consume '\'
	b, ok := c.advance()
	if !ok {
		return 0, c.errf(ErrUnexpectedEOF)
	}

	switch {
	case b == 'd':
		return c.emitMatch(funcPattern("is_digit", isDigit)), nil
	case b == 'w':
		return c.emitMatch(funcPattern("is_word", isWordByte)), nil
	case b == 's':
		return c.emitMatch(funcPattern("is_space", isSpace)), nil
	case b == 't':
		return c.emitMatch(charPattern(0x09)), nil
	case b == 'r':
		return c.emitMatch(charPattern(0x0D)), nil
	case b == 'v':
		return c.emitMatch(charPattern(0x0B)), nil
	case b == 'f':
		return c.emitMatch(charPattern(0x0C)), nil
	case b == 'n':
		return c.emitMatch(charPattern(0x0A)), nil
	case b == 'e':
		return c.emitMatch(charPattern(0x1B)), nil
	case b == 'b':
		return c.emitAssert(anchorWordBoundary), nil
	case b == 'B':
		return c.emitAssert(anchorNonWordBoundary), nil
	case b == '-' || b == '|' || b == '*' || b == '+' || b == '?' || b == '(' || b == ')':
		return c.emitMatch(charPattern(b)), nil
	case b >= '1' && b <= '9':
		n := int(b - '0')
		for {
			d, ok := c.peek()
			if !ok || d < '0' || d > '9' {
				break
			}
			c.advance()
			n = n*10 + int(d-'0')
		}
		if n > c.groupCount {
			return 0, c.errf(ErrInvalidBackReference)
		}
		return c.emit(instruction{op: opBackref, group: conv.IntToUint32(n)}), nil
	case b == '0':
		return 0, c.errf(ErrInvalidBackReference)
	default:
		return 0, c.errf(ErrUnexpectedEOF)
	}
}

// compileCapture implements:
//
//	capture := '(' alternation ')'
func (c *compiler) compileCapture() (uint32, error) {
	c.advance() // consume '('
	c.groupCount++
	n := conv.IntToUint32(c.groupCount)

	startIdx := c.emit(instruction{op: opGroupStart, group: n})

	if err := c.compileAlternation(); err != nil {
		return 0, err
	}

	b, ok := c.peek()
	if !ok || b != ')' {
		return 0, c.errf(ErrMissingParen)
	}
	c.advance()

	c.emit(instruction{op: opGroupEnd, group: n})
	return startIdx, nil
}

// compileCharGroup implements:
//
//	char_group := '[' [ '^' ] ( atom_in_group | range )+ ']'
//
// Each item compiles to a Match instruction between the leading Split and
// a post-group fixup pass that patches next/alt so the group behaves as
// "try every alternative, and on total mismatch either fall through (for
// a negated group, only after consuming one byte) or fail".
func (c *compiler) compileCharGroup() (uint32, error) {
	c.advance() // consume '['
	splitIdx := c.emit(instruction{op: opSplit})

	negated := false
	if b, ok := c.peek(); ok && b == '^' {
		negated = true
		c.advance()
	}

	start := conv.IntToUint32(len(c.instructions))
	items := 0
	for {
		b, ok := c.peek()
		if !ok {
			return 0, c.errf(ErrMissingBracket)
		}
		if b == ']' && items > 0 {
			c.advance()
			break
		}
		if err := c.compileCharGroupItem(); err != nil {
			return 0, err
		}
		items++
	}
	end := conv.IntToUint32(len(c.instructions))

	if negated {
		for i := start; i < end; i++ {
			c.instructions[i].next = 0 // any item matching forces failure
			c.instructions[i].alt = i + 1
		}
		// On "no item matched", still consume exactly one byte.
		c.emit(instruction{
			op:         opMatch,
			patternIdx: c.addPattern(funcPattern("is_any", isAny)),
			next:       end + 1,
			alt:        0,
		})
	} else {
		for i := start; i < end; i++ {
			c.instructions[i].next = end
			if i+1 < end {
				c.instructions[i].alt = i + 1
			} else {
				c.instructions[i].alt = 0
			}
		}
	}

	return splitIdx, nil
}

// compileCharGroupItem compiles one member of a character class: an
// escape, or a literal that may open a range (literal '-' literal).
func (c *compiler) compileCharGroupItem() error {
	b, ok := c.peek()
	if !ok {
		return c.errf(ErrMissingBracket)
	}

	if b == '\\' {
		_, err := c.compileEscape(true)
		return err
	}

	c.advance()
	patIdx := c.addPattern(charPattern(b))
	c.emit(instruction{op: opMatch, patternIdx: patIdx})

	// A '-' is a range operator unless it sits at a boundary: the very
	// first item (no preceding literal to extend) or immediately before
	// the closing ']'. Both boundary cases fall through and are picked up
	// as a literal '-' on the next loop iteration.
	if dash, ok := c.peek(); ok && dash == '-' {
		if after, ok := c.peekAt(1); ok && after != ']' {
			c.advance() // consume '-'
			to, ok := c.advance()
			if !ok {
				return c.errf(ErrMissingBracket)
			}
			if to < b {
				return c.errf(ErrInvalidCharRange)
			}
			c.patterns[patIdx] = rangePattern(b, to)
		}
	}

	return nil
}
