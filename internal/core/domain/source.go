package domain

import "unicode/utf8"

// Span is a half-open byte range into a source text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the byte offset lies within the span. The end
// offset is included so a cursor placed right after a token still hits it.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

// SyntaxError describes malformed markup. Syntax errors never abort parsing.
type SyntaxError struct {
	Span    Span
	Message string
	Hints   []string
}

// Source is a parsed file. It is immutable once built so it can be handed to
// the compiler repeatedly within one pass.
type Source struct {
	ID     FileID
	Text   string
	Root   *Markup
	Errors []SyntaxError
}

// HasErrors reports whether the source contains syntax errors.
func (s *Source) HasErrors() bool {
	return len(s.Errors) > 0
}

// CharToByte converts a count of Unicode characters into a byte offset into
// text. Offsets past the end clamp to len(text).
func CharToByte(text string, chars int) int {
	if chars <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == chars {
			return i
		}
		n++
	}
	return len(text)
}

// ByteToChar converts a byte offset into text to a count of Unicode characters.
// Offsets inside a multi-byte sequence count the partial character as absent.
func ByteToChar(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset >= len(text) {
		return utf8.RuneCountInString(text)
	}
	for offset > 0 && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return utf8.RuneCountInString(text[:offset])
}
