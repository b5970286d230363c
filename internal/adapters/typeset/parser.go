// Package typeset is a small markup language and layout engine: a parser, a
// compiler from markup to positioned page frames, and an autocompleter.
package typeset

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
)

var _ ports.Parser = (*Parser)(nil)

// Parser implements ports.Parser for the nole markup.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse builds the syntax tree of text. Malformed input never aborts parsing;
// problems are collected in the returned source.
func (p *Parser) Parse(id domain.FileID, text string) *domain.Source {
	s := &scanner{text: text}
	root := &domain.Markup{}
	for _, group := range blockGroups(text) {
		root.Blocks = append(root.Blocks, s.blocks(group)...)
	}
	return &domain.Source{ID: id, Text: text, Root: root, Errors: s.errors}
}

// line is the byte range of one line, excluding its terminator.
type line struct {
	start, end int
}

// blockGroups splits text into runs of non-blank lines.
func blockGroups(text string) [][]line {
	var (
		groups  [][]line
		current []line
	)
	start := 0
	for start <= len(text) {
		end := len(text)
		if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
			end = start + i
		}
		l := line{start: start, end: end}
		if l.end > l.start && text[l.end-1] == '\r' {
			l.end--
		}

		if strings.TrimSpace(text[l.start:l.end]) == "" {
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}
		} else {
			current = append(current, l)
		}
		start = end + 1
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// headingLevel returns the number of leading '=' markers of a heading line.
func headingLevel(text string) (level, content int) {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	markers := i
	for i < len(text) && text[i] == '=' {
		i++
	}
	level = i - markers
	if level == 0 {
		return 0, 0
	}
	if i == len(text) {
		return level, i
	}
	if text[i] != ' ' && text[i] != '\t' {
		return 0, 0
	}
	return level, i + 1
}

type scanner struct {
	text   string
	pos    int
	end    int
	errors []domain.SyntaxError
}

func (s *scanner) fail(span domain.Span, msg string, hints ...string) {
	s.errors = append(s.errors, domain.SyntaxError{Span: span, Message: msg, Hints: hints})
}

// blocks parses one group of lines. Heading lines stand alone; the lines
// between them form paragraphs.
func (s *scanner) blocks(group []line) []domain.Block {
	var out []domain.Block
	para := -1

	flush := func(end int) {
		if para < 0 {
			return
		}
		if b, ok := s.paragraph(para, end); ok {
			out = append(out, b)
		}
		para = -1
	}

	for _, l := range group {
		level, content := headingLevel(s.text[l.start:l.end])
		if level == 0 {
			if para < 0 {
				para = l.start
			}
			continue
		}
		flush(l.start)

		s.pos, s.end = l.start+content, l.end
		out = append(out, domain.Block{
			Kind:    domain.BlockHeading,
			Span:    domain.Span{Start: l.start, End: l.end},
			Level:   level,
			Inlines: trimSpaces(s.inlines(0)),
		})
	}
	flush(group[len(group)-1].end)

	return out
}

func (s *scanner) paragraph(start, end int) (domain.Block, bool) {
	for end > start && isSpace(s.text[end-1]) {
		end--
	}
	s.pos, s.end = start, end
	inlines := trimSpaces(s.inlines(0))
	if len(inlines) == 0 {
		return domain.Block{}, false
	}

	span := domain.Span{Start: inlines[0].Span.Start, End: inlines[len(inlines)-1].Span.End}
	if len(inlines) == 1 && inlines[0].Kind == domain.InlineCall {
		return domain.Block{Kind: domain.BlockCall, Span: span, Call: inlines[0].Call}, true
	}
	return domain.Block{Kind: domain.BlockParagraph, Span: span, Inlines: inlines}, true
}

// inlines parses inline content until stop or the end of the current range.
// The stop byte itself is left for the caller.
func (s *scanner) inlines(stop byte) []domain.Inline {
	var out []domain.Inline

	text := func(start int, str string) {
		if n := len(out); n > 0 && out[n-1].Kind == domain.InlineText && out[n-1].Span.End == start {
			out[n-1].Text += str
			out[n-1].Span.End = s.pos
			return
		}
		out = append(out, domain.Inline{Kind: domain.InlineText, Span: domain.Span{Start: start, End: s.pos}, Text: str})
	}

	for s.pos < s.end {
		start := s.pos
		c := s.text[s.pos]

		switch {
		case stop != 0 && c == stop:
			return out

		case isSpace(c) || c == '\n' || c == '\r':
			for s.pos < s.end && (isSpace(s.text[s.pos]) || s.text[s.pos] == '\n' || s.text[s.pos] == '\r') {
				s.pos++
			}
			if n := len(out); n == 0 || out[n-1].Kind != domain.InlineSpace {
				out = append(out, domain.Inline{Kind: domain.InlineSpace, Span: domain.Span{Start: start, End: s.pos}, Text: " "})
			}

		case c == '/' && s.peek(1) == '/' && s.afterSpace():
			for s.pos < s.end && s.text[s.pos] != '\n' {
				s.pos++
			}

		case c == '\\':
			s.pos++
			if s.pos >= s.end {
				text(start, "\\")
				continue
			}
			_, size := utf8.DecodeRuneInString(s.text[s.pos:s.end])
			s.pos += size
			text(start, s.text[start+1:s.pos])

		case c == '*' || (c == '_' && s.wordStart()):
			out = append(out, s.delimited(c))

		case c == '`':
			out = append(out, s.raw())

		case c == '#' && (isIdentStart(s.peekRune(1)) || s.peek(1) == '('):
			call := s.call()
			out = append(out, domain.Inline{Kind: domain.InlineCall, Span: call.Span, Call: call})

		default:
			s.pos++
			for s.pos < s.end && !s.special(stop) {
				s.pos++
			}
			text(start, s.text[start:s.pos])
		}
	}
	return out
}

// special reports whether the byte at the cursor may start a construct.
func (s *scanner) special(stop byte) bool {
	c := s.text[s.pos]
	switch c {
	case ' ', '\t', '\n', '\r', '\\', '*', '`', '#', '/':
		return true
	case '_':
		return s.wordStart() || stop == '_'
	}
	return stop != 0 && c == stop
}

func (s *scanner) delimited(delim byte) domain.Inline {
	start := s.pos
	s.pos++
	children := s.inlines(delim)

	kind, name := domain.InlineStrong, "strong emphasis"
	if delim == '_' {
		kind, name = domain.InlineEmph, "emphasis"
	}

	if s.pos < s.end && s.text[s.pos] == delim {
		s.pos++
	} else {
		s.fail(domain.Span{Start: start, End: s.pos}, "unclosed delimiter",
			"add a closing "+strconv.Quote(string(delim))+" to end the "+name)
	}
	return domain.Inline{Kind: kind, Span: domain.Span{Start: start, End: s.pos}, Children: children}
}

func (s *scanner) raw() domain.Inline {
	start := s.pos
	s.pos++
	closing := strings.IndexByte(s.text[s.pos:s.end], '`')
	if closing < 0 {
		body := s.text[s.pos:s.end]
		s.pos = s.end
		s.fail(domain.Span{Start: start, End: s.pos}, "unclosed raw text", "add a closing backtick")
		return domain.Inline{Kind: domain.InlineRaw, Span: domain.Span{Start: start, End: s.pos}, Text: body}
	}
	body := s.text[s.pos : s.pos+closing]
	s.pos += closing + 1
	return domain.Inline{Kind: domain.InlineRaw, Span: domain.Span{Start: start, End: s.pos}, Text: body}
}

// call parses "#name(args)". The cursor is on the '#'.
func (s *scanner) call() *domain.Call {
	c := &domain.Call{Span: domain.Span{Start: s.pos}}
	s.pos++

	nameStart := s.pos
	c.Name = s.ident()
	c.NameSpan = domain.Span{Start: nameStart, End: s.pos}
	if c.Name == "" {
		s.fail(domain.Span{Start: c.Span.Start, End: s.pos + 1}, "expected identifier", "write a function name after '#'")
	}

	if s.peek(0) != '(' {
		c.Closed = true
		c.Span.End = s.pos
		return c
	}

	argsStart := s.pos
	s.pos++
	for {
		s.skipWhitespace()
		if s.pos >= s.end {
			s.fail(domain.Span{Start: argsStart, End: s.pos}, "expected closing paren", "add ')' to close the argument list")
			break
		}
		if s.text[s.pos] == ')' {
			s.pos++
			c.Closed = true
			break
		}

		if arg, ok := s.arg(); ok {
			c.Args = append(c.Args, arg)
		}

		s.skipWhitespace()
		if s.pos < s.end && s.text[s.pos] == ',' {
			s.pos++
			continue
		}
		if s.pos < s.end && s.text[s.pos] != ')' {
			s.fail(domain.Span{Start: s.pos, End: s.pos + 1}, "expected comma or closing paren")
			s.recover()
			if s.peek(0) == ',' {
				s.pos++
			}
		}
	}

	c.ArgsSpan = domain.Span{Start: argsStart, End: s.pos}
	c.Span.End = s.pos
	return c
}

// recover skips to the next argument separator.
func (s *scanner) recover() {
	depth := 0
	for s.pos < s.end {
		switch s.text[s.pos] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return
			}
			depth--
		case ',':
			if depth == 0 {
				return
			}
		case '"':
			s.str()
			continue
		}
		s.pos++
	}
}

func (s *scanner) arg() (domain.Arg, bool) {
	start := s.pos

	if isIdentStart(s.peekRune(0)) {
		save := s.pos
		name := s.ident()
		nameSpan := domain.Span{Start: save, End: s.pos}
		s.skipSpaces()
		if s.peek(0) == ':' {
			s.pos++
			s.skipWhitespace()
			v := s.value()
			return domain.Arg{Name: name, NameSpan: nameSpan, Value: v, Span: domain.Span{Start: start, End: s.pos}}, true
		}
		s.pos = save
	}

	v := s.value()
	if v.Kind == domain.ValueNone {
		return domain.Arg{}, false
	}
	return domain.Arg{Value: v, Span: domain.Span{Start: start, End: s.pos}}, true
}

func (s *scanner) value() domain.Value {
	start := s.pos
	if s.pos >= s.end {
		s.fail(domain.Span{Start: start, End: start}, "expected value")
		return domain.Value{Span: domain.Span{Start: start, End: start}}
	}

	c := s.text[s.pos]
	switch {
	case c == '"':
		str := s.str()
		return domain.Value{Kind: domain.ValueString, Span: domain.Span{Start: start, End: s.pos}, Str: str}

	case c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return s.number()

	case isIdentStart(s.peekRune(0)):
		id := s.ident()
		return domain.Value{Kind: domain.ValueIdent, Span: domain.Span{Start: start, End: s.pos}, Str: id}
	}

	s.fail(domain.Span{Start: start, End: start + 1}, "expected value", "values are strings, numbers or identifiers")
	s.recover()
	return domain.Value{Span: domain.Span{Start: start, End: s.pos}}
}

// str parses a quoted string. The cursor is on the opening quote.
func (s *scanner) str() string {
	start := s.pos
	s.pos++

	var b strings.Builder
	for s.pos < s.end {
		c := s.text[s.pos]
		switch c {
		case '"':
			s.pos++
			return b.String()
		case '\\':
			s.pos++
			if s.pos >= s.end {
				continue
			}
			switch esc := s.text[s.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
			s.pos++
		case '\n':
			s.fail(domain.Span{Start: start, End: s.pos}, "unclosed string", "strings cannot span lines")
			return b.String()
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	s.fail(domain.Span{Start: start, End: s.pos}, "unclosed string", "add a closing '\"'")
	return b.String()
}

func (s *scanner) number() domain.Value {
	start := s.pos
	if s.peek(0) == '-' {
		s.pos++
	}
	for s.pos < s.end && (isDigit(s.text[s.pos]) || s.text[s.pos] == '.') {
		s.pos++
	}
	digits := s.text[start:s.pos]

	unitStart := s.pos
	for s.pos < s.end && (isLetter(s.text[s.pos]) || s.text[s.pos] == '%') {
		s.pos++
	}
	unit := s.text[unitStart:s.pos]

	span := domain.Span{Start: start, End: s.pos}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		s.fail(span, "invalid number", "write numbers like 12 or 1.5cm")
		return domain.Value{Span: span}
	}
	switch unit {
	case "", "pt", "mm", "cm", "in", "em", "%":
	default:
		s.fail(domain.Span{Start: unitStart, End: s.pos}, "unknown unit "+strconv.Quote(unit), "use pt, mm, cm, in, em or %")
	}
	return domain.Value{Kind: domain.ValueNumber, Span: span, Num: n, Unit: unit}
}

func (s *scanner) ident() string {
	start := s.pos
	for s.pos < s.end {
		r, size := utf8.DecodeRuneInString(s.text[s.pos:s.end])
		if s.pos == start && !isIdentStart(r) {
			break
		}
		if s.pos > start && !isIdentPart(r) {
			break
		}
		s.pos += size
	}
	return s.text[start:s.pos]
}

func (s *scanner) skipSpaces() {
	for s.pos < s.end && isSpace(s.text[s.pos]) {
		s.pos++
	}
}

func (s *scanner) skipWhitespace() {
	for s.pos < s.end && (isSpace(s.text[s.pos]) || s.text[s.pos] == '\n' || s.text[s.pos] == '\r') {
		s.pos++
	}
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < s.end {
		return s.text[s.pos+n]
	}
	return 0
}

func (s *scanner) peekRune(n int) rune {
	if s.pos+n >= s.end {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.pos+n : s.end])
	return r
}

// wordStart reports whether the cursor is not preceded by a letter or digit.
func (s *scanner) wordStart() bool {
	if s.pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s.text[:s.pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// afterSpace reports whether the cursor starts the text or follows whitespace.
func (s *scanner) afterSpace() bool {
	if s.pos == 0 {
		return true
	}
	c := s.text[s.pos-1]
	return isSpace(c) || c == '\n' || c == '\r'
}

// trimSpaces drops leading and trailing space inlines.
func trimSpaces(in []domain.Inline) []domain.Inline {
	for len(in) > 0 && in[0].Kind == domain.InlineSpace {
		in = in[1:]
	}
	for len(in) > 0 && in[len(in)-1].Kind == domain.InlineSpace {
		in = in[:len(in)-1]
	}
	return in
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && isLetter(byte(r)))
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r == '-' || (r >= '0' && r <= '9')
}
