package regex

import "github.com/vhollow/vgrep/prefilter"

// Options configures how a Regex compiles and matches.
type Options struct {
	// Multiline makes '^' and '$' (and the StartLineOrString /
	// EndLineOrString assertions they compile to) match at internal line
	// boundaries, not just the edges of the whole input.
	Multiline bool

	// IgnoreCase folds Char and Range pattern comparisons to lowercase.
	// Func predicates (\d, \w, \s, .) are unaffected; they already cover
	// the intended class regardless of case.
	IgnoreCase bool
}

// Regex is a compiled regular expression: the instruction graph, its
// pattern table, the number of capture groups it declares, and the
// options it was compiled with.
//
// A Regex is read-only during Match; only the transient, per-attempt
// capture array is mutated. Match calls on the same Regex are safe if
// serialized; concurrent callers need external locking or a separate
// compile per goroutine.
type Regex struct {
	instructions []instruction
	patterns     []pattern
	groupCount   int
	options      Options

	// pf narrows the offsets Match/FindSubmatchIndex try, when the
	// compiler could prove a literal requirement (see literal.go). It is
	// an optimization only: nil means "try every offset", never "this
	// pattern is unmatchable".
	pf prefilter.Scanner

	source string // retained only for String()
}

// Compile parses source and builds a Regex ready to match against input.
func Compile(source []byte, opts Options) (*Regex, error) {
	instructions, patterns, groupCount, err := compile(source)
	if err != nil {
		return nil, err
	}
	re := &Regex{
		instructions: instructions,
		patterns:     patterns,
		groupCount:   groupCount,
		options:      opts,
		source:       string(source),
	}
	re.pf = buildPrefilter(instructions, patterns, opts)
	return re, nil
}

// buildPrefilter turns the best-effort literal extraction in literal.go
// into an executable prefilter.Scanner. Case folding isn't modeled by the
// literal byte comparisons in the prefilter package, so ignore-case
// patterns skip it entirely and fall back to trying every offset.
func buildPrefilter(instructions []instruction, patterns []pattern, opts Options) prefilter.Scanner {
	if opts.IgnoreCase {
		return nil
	}
	s, ok := buildScanner(instructions, patterns)
	if !ok {
		return nil
	}
	if s.alternatives != nil {
		pf, err := prefilter.NewSet(s.alternatives)
		if err != nil {
			return nil
		}
		return pf
	}
	return prefilter.NewLiteral(s.prefix)
}

// MustCompile is like Compile but panics on error. Intended for patterns
// known to be valid at init time.
func MustCompile(source []byte, opts Options) *Regex {
	re, err := Compile(source, opts)
	if err != nil {
		panic("regex: Compile(" + string(source) + "): " + err.Error())
	}
	return re
}

// Recompile atomically replaces re's internals with a fresh compile of
// source. The previous instructions and patterns are only discarded after
// the new compile succeeds, so a failed Recompile leaves re matching
// against its prior program.
func (re *Regex) Recompile(source []byte) error {
	instructions, patterns, groupCount, err := compile(source)
	if err != nil {
		return err
	}
	re.instructions = instructions
	re.patterns = patterns
	re.groupCount = groupCount
	re.source = string(source)
	re.pf = buildPrefilter(instructions, patterns, re.options)
	return nil
}

// GroupCount returns the number of capture groups declared in the source.
func (re *Regex) GroupCount() int {
	return re.groupCount
}

// String returns the source the Regex was compiled from.
func (re *Regex) String() string {
	return re.source
}

// Match reports whether input contains a match anywhere. Start positions
// are tried in order from 0, returning on the first success, which is
// what makes quantifier and alternation greediness observable: trying a
// later start can never preempt an earlier one. When a literal prefilter
// is available it narrows which offsets are tried; it never changes the
// result, only how many offsets the backtracking VM has to visit.
func (re *Regex) Match(input []byte) (bool, error) {
	m := &matcher{re: re, input: input}
	return re.eachCandidate(input, func(start int) (bool, error) {
		return m.run(start)
	})
}

// FindSubmatchIndex behaves like Match but additionally returns, on a
// successful match, the byte offsets of the overall match and of every
// capture group. Index 0 holds the overall match bounds; index n holds
// group n's bounds, or (-1, -1) if group n did not participate.
func (re *Regex) FindSubmatchIndex(input []byte) ([][2]int, error) {
	m := &matcher{re: re, input: input}
	var result [][2]int
	_, err := re.eachCandidate(input, func(start int) (bool, error) {
		end, captures, ok, err := m.runCaptures(start)
		if err != nil || !ok {
			return ok, err
		}
		result = make([][2]int, re.groupCount+1)
		result[0] = [2]int{start, end}
		for i := 1; i <= re.groupCount; i++ {
			if i < len(captures) && captures[i].start >= 0 && captures[i].end >= 0 {
				result[i] = [2]int{captures[i].start, captures[i].end}
			} else {
				result[i] = [2]int{-1, -1}
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// eachCandidate calls try at every start offset the prefilter (if any)
// marks as a candidate, in increasing order, stopping at the first offset
// where try reports a match or an error. Without a prefilter it simply
// tries every offset from 0 to len(input).
func (re *Regex) eachCandidate(input []byte, try func(start int) (bool, error)) (bool, error) {
	if re.pf == nil {
		for start := 0; start <= len(input); start++ {
			ok, err := try(start)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}

	for at := 0; ; {
		start, ok := re.pf.Next(input, at)
		if !ok {
			return false, nil
		}
		matched, err := try(start)
		if err != nil || matched {
			return matched, err
		}
		at = start + 1
	}
}
