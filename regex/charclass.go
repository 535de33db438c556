package regex

// isDigit reports whether b is an ASCII decimal digit (the \d class).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isWordByte reports whether b is a "word" byte: 0-9, A-Z, a-z, or '_'.
// Used both for \w and for the word-boundary assertions.
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= 'a' && b <= 'z')
}

// isSpace reports whether b is an ASCII whitespace byte (the \s class):
// space, and the control range \t (0x09) through \r (0x0D).
func isSpace(b byte) bool {
	return b == ' ' || (b >= 0x09 && b <= 0x0D)
}

// isAny matches every byte; used for '.' and for the "consume one byte"
// fallback instruction appended after negated character classes.
func isAny(b byte) bool {
	return true
}
