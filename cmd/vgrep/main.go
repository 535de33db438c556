// Command vgrep is a grep-style line-matching front end for the regex
// package: it compiles a pattern with the -E dialect and reports which
// lines of standard input or of the given files/directories match it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vhollow/vgrep/regex"
)

var usage = func() {
	fmt.Fprint(os.Stderr, `usage: vgrep [-r|--recursive] [-E|--extended-regexp] <pattern> [<path>...]

Options:

  -E, --extended-regexp   required: enable the regex dialect
  -r, --recursive         walk each path as a directory tree

With no paths, vgrep reads a single line from standard input. With one or
more paths it scans every line of every named file, prefixing output with
"<path>:" when more than one path is given. Under -r, every path is
walked depth-first and every matched line is prefixed with its file path.
`)
}

// errLog is the diagnostic logger for usage, compile, and I/O failures:
// one line to stderr per error, with no timestamp prefix since each
// message already names "vgrep" itself.
var errLog = log.New(os.Stderr, "", 0)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run parses args and drives the scan, returning the process exit code:
// 0 if some line matched, 1 on no match or a usage/compile error, 2 on
// an I/O failure.
func run(args []string, stdin *os.File, stdout *os.File) int {
	args = expandBundledFlags(args)

	fs := flag.NewFlagSet("vgrep", flag.ContinueOnError)
	fs.Usage = usage
	extended := fs.Bool("E", false, "enable the regex dialect")
	fs.BoolVar(extended, "extended-regexp", false, "enable the regex dialect")
	recursive := fs.Bool("r", false, "walk each path as a directory tree")
	fs.BoolVar(recursive, "recursive", false, "walk each path as a directory tree")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	pattern, paths, err := parseTargets(fs.Args(), *extended, *recursive)
	if err != nil {
		if errors.Is(err, ErrMissingPattern) {
			usage()
		}
		errLog.Println(err)
		return 1
	}

	re, err := regex.Compile([]byte(pattern), regex.Options{})
	if err != nil {
		errLog.Printf("vgrep: %v", err)
		return 1
	}

	matched, err := scan(re, stdin, stdout, paths, *recursive)
	if err != nil {
		errLog.Println(err)
		return 2
	}
	if !matched {
		return 1
	}
	return 0
}

// parseTargets validates the positional arguments left after flag parsing
// and splits them into the pattern and the path list.
func parseTargets(rest []string, extended, recursive bool) (pattern string, paths []string, err error) {
	if !extended {
		return "", nil, &UsageError{Err: ErrMissingExtendedFlag}
	}
	if len(rest) < 1 {
		return "", nil, &UsageError{Err: ErrMissingPattern}
	}
	pattern, paths = rest[0], rest[1:]
	if recursive && len(paths) < 1 {
		return "", nil, &UsageError{Err: ErrMissingRecursivePath}
	}
	return pattern, paths, nil
}

// expandBundledFlags rewrites Unix-style bundled short flags ("-rE",
// "-Er") into their separate single-letter forms, since the standard
// flag package only understands one flag per "-" group.
func expandBundledFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if len(a) == 3 && a[0] == '-' && a[1] != '-' && isBundlable(a[1]) && isBundlable(a[2]) {
			out = append(out, "-"+string(a[1]), "-"+string(a[2]))
			continue
		}
		out = append(out, a)
	}
	return out
}

func isBundlable(b byte) bool {
	return b == 'r' || b == 'E'
}
