package main

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vhollow/vgrep/regex"
)

// scan runs re against stdin or the given paths and writes every matching
// line to out, returning whether anything matched. Path-prefixing follows
// spec.md's REDESIGN FLAG resolution: recursive mode always prefixes;
// non-recursive mode prefixes only when more than one path was given.
func scan(re *regex.Regex, stdin io.Reader, out io.Writer, paths []string, recursive bool) (bool, error) {
	if recursive {
		return scanRecursive(re, out, paths)
	}
	if len(paths) == 0 {
		return scanStdin(re, stdin, out)
	}
	return scanFiles(re, out, paths, len(paths) > 1)
}

// scanStdin reads a single line from stdin and matches it once.
func scanStdin(re *regex.Regex, stdin io.Reader, out io.Writer) (bool, error) {
	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, &IOError{Err: err}
		}
		return false, nil
	}
	line := scanner.Bytes()
	ok, err := re.Match(line)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := writeLine(out, "", line); err != nil {
		return false, &IOError{Err: err}
	}
	return true, nil
}

// scanFiles matches every line of every named file, prefixing with
// "<path>:" when prefix is set.
func scanFiles(re *regex.Regex, out io.Writer, paths []string, prefix bool) (bool, error) {
	matched := false
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return matched, &IOError{Path: path, Err: err}
		}
		m, err := scanLines(re, f, out, pathPrefix(prefix, path))
		f.Close()
		if err != nil {
			return matched, &IOError{Path: path, Err: err}
		}
		matched = matched || m
	}
	return matched, nil
}

// scanRecursive walks each path depth-first, matching within every
// regular file it finds, always prefixing output with the file path.
func scanRecursive(re *regex.Regex, out io.Writer, paths []string) (bool, error) {
	matched := false
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return &IOError{Path: path, Err: err}
			}
			if d.IsDir() {
				return nil
			}
			f, err := os.Open(path)
			if err != nil {
				return &IOError{Path: path, Err: err}
			}
			defer f.Close()
			m, err := scanLines(re, f, out, path+":")
			if err != nil {
				return &IOError{Path: path, Err: err}
			}
			matched = matched || m
			return nil
		})
		if err != nil {
			return matched, err
		}
	}
	return matched, nil
}

// scanLines matches every line read from r, writing matches to out with
// prefix prepended to each one.
func scanLines(re *regex.Regex, r io.Reader, out io.Writer, prefix string) (bool, error) {
	matched := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		ok, err := re.Match(line)
		if err != nil {
			return matched, err
		}
		if !ok {
			continue
		}
		if err := writeLine(out, prefix, line); err != nil {
			return matched, err
		}
		matched = true
	}
	return matched, scanner.Err()
}

func pathPrefix(enabled bool, path string) string {
	if !enabled {
		return ""
	}
	return path + ":"
}

func writeLine(out io.Writer, prefix string, line []byte) error {
	if prefix != "" {
		if _, err := io.WriteString(out, prefix); err != nil {
			return err
		}
	}
	if _, err := out.Write(line); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}
