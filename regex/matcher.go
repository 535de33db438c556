package regex

// capture holds one group's bounds for a single match attempt. start and
// end are -1 while unset, mirroring the spec's Option<usize>; a
// backreference to a group that never set both bounds fails rather than
// matching the empty string.
type capture struct {
	start int
	end   int
}

func freshCaptures(n int) []capture {
	caps := make([]capture, n+1) // 1-indexed: group 0 is never used
	for i := range caps {
		caps[i] = capture{start: -1, end: -1}
	}
	return caps
}

func cloneCaptures(caps []capture) []capture {
	out := make([]capture, len(caps))
	copy(out, caps)
	return out
}

// matcher is the backtracking VM. It holds the input for the duration of
// a single Match/FindSubmatchIndex call; the Regex it evaluates is
// read-only throughout.
type matcher struct {
	re    *Regex
	input []byte
}

// run tries to match starting at input_idx == start and reports only
// whether it succeeded, discarding captures.
func (m *matcher) run(start int) (bool, error) {
	caps := freshCaptures(m.re.groupCount)
	_, ok, err := m.matchAt(start, 1, caps)
	return ok, err
}

// runCaptures is like run but also returns the end position of the
// overall match and the final capture state.
func (m *matcher) runCaptures(start int) (int, []capture, bool, error) {
	caps := freshCaptures(m.re.groupCount)
	end, ok, err := m.matchAt(start, 1, caps)
	return end, caps, ok, err
}

// matchAt is the recursive core of the VM. It dispatches on the opcode at
// instIdx and returns the input position at which the match completed
// (valid only when ok is true), whether the attempt succeeded, and any
// runtime error.
//
// Every Split, and every GroupStart that participates in a skippable
// quantifier, clones the capture slice before trying its alt branch: a
// capture written while exploring next must not leak into alt's sibling
// exploration. next is always tried before alt, which is what makes
// quantifiers and alternation greedy/leftmost.
func (m *matcher) matchAt(inputIdx int, instIdx uint32, caps []capture) (int, bool, error) {
	inst := m.re.instructions[instIdx]

	switch inst.op {
	case opNil:
		return 0, false, nil

	case opEnd:
		return inputIdx, true, nil

	case opSplit:
		capsCopy := cloneCaptures(caps)
		if end, ok, err := m.matchAt(inputIdx, inst.next, caps); err != nil || ok {
			return end, ok, err
		}
		if inst.alt == 0 {
			return 0, false, nil
		}
		end, ok, err := m.matchAt(inputIdx, inst.alt, capsCopy)
		if ok {
			// Hand the winning branch's captures back to the caller.
			copy(caps, capsCopy)
		}
		return end, ok, err

	case opMatch:
		if inputIdx < len(m.input) && m.re.patterns[inst.patternIdx].accepts(m.input[inputIdx], m.re.options.IgnoreCase) {
			return m.matchAt(inputIdx+1, inst.next, caps)
		}
		if inst.alt == 0 {
			return 0, false, nil
		}
		return m.matchAt(inputIdx, inst.alt, caps)

	case opAssert:
		if !m.assertAt(inputIdx, inst.anchor) {
			return 0, false, nil
		}
		return m.matchAt(inputIdx, inst.next, caps)

	case opGroupStart:
		// caps is pre-sized to groupCount+1 by freshCaptures, so
		// inst.group (1..groupCount) is always a valid index.
		//
		// alt is only nonzero when a quantifier rewrite (see
		// compileRepetition) made this group skippable; only then is a
		// clone needed to keep the skip branch unaffected by this group's
		// start write.
		if inst.alt == 0 {
			caps[inst.group].start = inputIdx
			return m.matchAt(inputIdx, inst.next, caps)
		}
		capsCopy := cloneCaptures(caps)
		caps[inst.group].start = inputIdx
		if end, ok, err := m.matchAt(inputIdx, inst.next, caps); err != nil || ok {
			return end, ok, err
		}
		end, ok, err := m.matchAt(inputIdx, inst.alt, capsCopy)
		if ok {
			copy(caps, capsCopy)
		}
		return end, ok, err

	case opGroupEnd:
		caps[inst.group].end = inputIdx
		return m.matchAt(inputIdx, inst.next, caps)

	case opBackref:
		text, ok := groupText(m.input, caps, inst.group)
		if !ok {
			return 0, false, nil
		}
		if inputIdx+len(text) > len(m.input) {
			return 0, false, nil
		}
		if bytesEqual(m.input[inputIdx:inputIdx+len(text)], text, m.re.options.IgnoreCase) {
			return m.matchAt(inputIdx+len(text), inst.next, caps)
		}
		if inst.alt == 0 {
			return 0, false, nil
		}
		return m.matchAt(inputIdx, inst.alt, caps)

	default:
		return 0, false, nil
	}
}

// groupText returns the substring previously captured by group n, or
// false if the group never fully matched (start or end unset).
func groupText(input []byte, caps []capture, n uint32) ([]byte, bool) {
	if int(n) >= len(caps) {
		return nil, false
	}
	c := caps[n]
	if c.start < 0 || c.end < 0 {
		return nil, false
	}
	return input[c.start:c.end], true
}

func bytesEqual(a, b []byte, ignoreCase bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if ignoreCase {
			if toLower(a[i]) != toLower(b[i]) {
				return false
			}
		} else if a[i] != b[i] {
			return false
		}
	}
	return true
}

// assertAt evaluates a zero-width assertion at inputIdx.
func (m *matcher) assertAt(inputIdx int, kind anchorKind) bool {
	switch kind {
	case anchorStartLineOrString:
		if inputIdx == 0 {
			return true
		}
		return m.re.options.Multiline && m.input[inputIdx-1] == '\n'

	case anchorEndLineOrString:
		if inputIdx == len(m.input) {
			return true
		}
		return m.re.options.Multiline && m.input[inputIdx] == '\n'

	case anchorWordBoundary:
		return m.wordBoundary(inputIdx)

	case anchorNonWordBoundary:
		return !m.wordBoundary(inputIdx)

	default:
		return false
	}
}

// wordBoundary reports whether exactly one of the bytes straddling
// inputIdx is a word byte, treating positions outside the input as
// non-word.
func (m *matcher) wordBoundary(inputIdx int) bool {
	before := inputIdx > 0 && isWordByte(m.input[inputIdx-1])
	after := inputIdx < len(m.input) && isWordByte(m.input[inputIdx])
	return before != after
}
