package regex

import (
	"errors"
	"testing"
)

func mustMatch(t *testing.T, src, input string, opts Options) bool {
	t.Helper()
	re, err := Compile([]byte(src), opts)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	ok, err := re.Match([]byte(input))
	if err != nil {
		t.Fatalf("Match(%q) against %q: %v", src, input, err)
	}
	return ok
}

func TestConcreteScenarios(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		input   string
		want    bool
		options Options
	}{
		{"digit then ab", `\dab`, "0123abc", true, Options{}},
		{"negated class miss", `[^xyz] always me`, "y always me", false, Options{}},
		{"negated class hit", `[^xyz] always me`, "b always me", true, Options{}},
		{"star empty", `ca*ts`, "cts", true, Options{}},
		{"star one", `ca*ts`, "cats", true, Options{}},
		{"star many", `ca*ts`, "caats", true, Options{}},
		{"backref plus group", `(a|b+) \1`, "bbb bb", true, Options{}},
		{"sentence alternation", `^I see (\d (cat|dog|cow)s?(, | and )?)+$`, "I see 1 cat, 2 dogs and 3 cows", true, Options{}},
		{"nested backrefs match", `(\d+ )?(\w+) squares and \1\2 circles`, "3 red squares and 3 red circles", true, Options{}},
		{"nested backrefs miss", `(\d+ )?(\w+) squares and \1\2 circles`, "red squares and red circles", false, Options{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := mustMatch(t, c.src, c.input, c.options); got != c.want {
				t.Errorf("match(%q, %q) = %v, want %v", c.src, c.input, got, c.want)
			}
		})
	}
}

func TestMultilineAnchor(t *testing.T) {
	got := mustMatch(t, `^log`, "something\nlog some other log\nand done", Options{Multiline: true})
	if !got {
		t.Fatalf("expected multiline ^log to match")
	}
}

func TestMultilineAnchorInput(t *testing.T) {
	re, err := Compile([]byte(`^log`), Options{Multiline: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ok, err := re.Match([]byte("something\nlog some other log\nand done"))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !ok {
		t.Fatal("expected match")
	}
}

func TestInvalidBackReference(t *testing.T) {
	_, err := Compile([]byte(`\d+ (\w+) squares and \1\2 circles`), Options{})
	if !errors.Is(err, ErrInvalidBackReference) {
		t.Fatalf("got %v, want ErrInvalidBackReference", err)
	}
}

func TestInvalidCharRange(t *testing.T) {
	_, err := Compile([]byte(`[9-1] balls`), Options{})
	if !errors.Is(err, ErrInvalidCharRange) {
		t.Fatalf("got %v, want ErrInvalidCharRange", err)
	}
}

func TestMissingBracket(t *testing.T) {
	_, err := Compile([]byte(`[abc`), Options{})
	if !errors.Is(err, ErrMissingBracket) {
		t.Fatalf("got %v, want ErrMissingBracket", err)
	}
}

func TestMissingParen(t *testing.T) {
	_, err := Compile([]byte(`(abc`), Options{})
	if !errors.Is(err, ErrMissingParen) {
		t.Fatalf("got %v, want ErrMissingParen", err)
	}
}

func TestMissingRepeatArgument(t *testing.T) {
	_, err := Compile([]byte(`+abc`), Options{})
	if !errors.Is(err, ErrMissingRepeatArgument) {
		t.Fatalf("got %v, want ErrMissingRepeatArgument", err)
	}
}

func TestUnsupportedClass(t *testing.T) {
	_, err := Compile([]byte(`a^b`), Options{})
	if !errors.Is(err, ErrUnsupportedClass) {
		t.Fatalf("got %v, want ErrUnsupportedClass", err)
	}

	_, err = Compile([]byte(`a$b`), Options{})
	if !errors.Is(err, ErrUnsupportedClass) {
		t.Fatalf("got %v, want ErrUnsupportedClass", err)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	_, err := Compile([]byte(`abc\`), Options{})
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("got %v, want ErrUnexpectedEOF", err)
	}
}

func TestEmptyInputMatchesStarClosure(t *testing.T) {
	if !mustMatch(t, `a*`, "", Options{}) {
		t.Fatal("a* should match empty input")
	}
}

func TestEmptyInputRejectsMandatoryAtom(t *testing.T) {
	if mustMatch(t, `a`, "", Options{}) {
		t.Fatal("'a' should not match empty input")
	}
}

func TestBackrefToUnmatchedOptionalGroupFails(t *testing.T) {
	// Group 1 never participates when its optional prefix is absent, so
	// \1 must fail rather than match the empty string.
	got := mustMatch(t, `(\d+ )?(\w+) squares and \1\2 circles`, "red squares and red circles", Options{})
	if got {
		t.Fatal("backreference to an unmatched optional group should fail")
	}
}

func TestIgnoreCase(t *testing.T) {
	re, err := Compile([]byte(`[a-z]+`), Options{IgnoreCase: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, s := range []string{"hello", "HELLO", "HeLLo"} {
		ok, err := re.Match([]byte(s))
		if err != nil {
			t.Fatalf("Match(%q): %v", s, err)
		}
		if !ok {
			t.Errorf("expected ignore-case match for %q", s)
		}
	}
}

func TestDeterminism(t *testing.T) {
	re, err := Compile([]byte(`(a|b+) \1`), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	first, err := re.Match([]byte("bbb bb"))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := re.Match([]byte("bbb bb"))
		if err != nil {
			t.Fatalf("Match: %v", err)
		}
		if again != first {
			t.Fatalf("match result changed across repeated calls")
		}
	}
}

func TestRecompile(t *testing.T) {
	re, err := Compile([]byte(`foo`), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if ok, _ := re.Match([]byte("foo")); !ok {
		t.Fatal("expected initial pattern to match")
	}

	if err := re.Recompile([]byte(`bar`)); err != nil {
		t.Fatalf("Recompile: %v", err)
	}
	if ok, _ := re.Match([]byte("foo")); ok {
		t.Fatal("recompiled pattern should no longer match old source")
	}
	if ok, _ := re.Match([]byte("bar")); !ok {
		t.Fatal("recompiled pattern should match new source")
	}
}

func TestRecompileKeepsOldProgramOnFailure(t *testing.T) {
	re, err := Compile([]byte(`foo`), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := re.Recompile([]byte(`[abc`)); err == nil {
		t.Fatal("expected Recompile to fail on malformed source")
	}
	if ok, _ := re.Match([]byte("foo")); !ok {
		t.Fatal("Regex should keep matching against its previous program after a failed Recompile")
	}
}

func TestFindSubmatchIndex(t *testing.T) {
	re, err := Compile([]byte(`(\d+)-(\d+)`), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, err := re.FindSubmatchIndex([]byte("order 12-34 shipped"))
	if err != nil {
		t.Fatalf("FindSubmatchIndex: %v", err)
	}
	if got == nil {
		t.Fatal("expected a match")
	}
	if string("order 12-34 shipped"[got[0][0]:got[0][1]]) != "12-34" {
		t.Fatalf("overall match = %q, want %q", "order 12-34 shipped"[got[0][0]:got[0][1]], "12-34")
	}
	if string("order 12-34 shipped"[got[1][0]:got[1][1]]) != "12" {
		t.Fatalf("group 1 = %q, want %q", "order 12-34 shipped"[got[1][0]:got[1][1]], "12")
	}
	if string("order 12-34 shipped"[got[2][0]:got[2][1]]) != "34" {
		t.Fatalf("group 2 = %q, want %q", "order 12-34 shipped"[got[2][0]:got[2][1]], "34")
	}
}
