package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"zac/internal/comment"
	"zac/internal/token"
)

// Diagnostic is a lex-time problem tied to a byte offset in the input.
type Diagnostic struct {
	Position int
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (offset %d)", d.Msg, d.Position)
}

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF

	store  *comment.Store
	errors []Diagnostic
}

func New(input string) *Lexer {
	l := &Lexer{input: input, store: comment.NewStore()}
	l.readChar()
	return l
}

// Store returns the comment blocks extracted so far. It is complete once
// the token stream has been consumed through EOF.
func (l *Lexer) Store() *comment.Store { return l.store }

func (l *Lexer) Errors() []Diagnostic { return l.errors }

func (l *Lexer) addError(position int, format string, args ...interface{}) {
	l.errors = append(l.errors, Diagnostic{Position: position, Msg: fmt.Sprintf(format, args...)})
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	startPosition := l.position

	switch l.ch {
	case '=':
		tok = newToken(token.ASSIGN, l.ch, startPosition)
	case '#':
		tok = newToken(token.HASH, l.ch, startPosition)
	case ',':
		tok = newToken(token.COMMA, l.ch, startPosition)
	case '(':
		tok = newToken(token.LPAREN, l.ch, startPosition)
	case ')':
		tok = newToken(token.RPAREN, l.ch, startPosition)
	case '{':
		tok = newToken(token.LBRACE, l.ch, startPosition)
	case '}':
		tok = newToken(token.RBRACE, l.ch, startPosition)
	case '"':
		return l.readString()
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		tok.Position = startPosition
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Position = startPosition
			return tok
		} else if isDigit(l.ch) {
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			tok.Position = startPosition
			return tok
		}
		l.addError(startPosition, "unknown symbol %q", string(l.ch))
		tok = newToken(token.ILLEGAL, l.ch, startPosition)
	}

	l.readChar()
	return tok
}

// skipWhitespace also disposes of comments: ordinary `//` lines vanish, and
// `// #name` marker lines pull their following row lines into the store.
func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				l.readComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

// readComment consumes one comment line. A line of the marker shape
// `// #name` additionally captures the contiguous row lines below it as a
// named block and records their byte span.
func (l *Lexer) readComment() {
	lineStart := l.position
	lineEnd, nextLine := l.lineBounds(lineStart)

	name, ok := parseMarker(l.input[lineStart:lineEnd])
	if !ok {
		l.jumpTo(nextLine)
		return
	}

	// The rewritable span starts on the line after the marker.
	start := nextLine
	end := start
	lead := ""
	var rows []string
	cursor := nextLine
	for cursor < len(l.input) {
		rowEnd, rowNext := l.lineBounds(cursor)
		rowLead, row, ok := parseRow(l.input[cursor:rowEnd])
		if !ok {
			break
		}
		if len(rows) == 0 {
			lead = rowLead
		}
		rows = append(rows, row)
		end = rowEnd
		// Keep a CRLF row's \r outside the span so rewriting the block
		// leaves the line terminator alone.
		if end > start && l.input[end-1] == '\r' {
			end--
		}
		cursor = rowNext
	}

	if len(rows) == 0 {
		// No row to take the lead from; reuse the marker line's own
		// indentation and comment prefix so a value written later still
		// renders as a comment.
		markerStart := strings.LastIndexByte(l.input[:lineStart], '\n') + 1
		indent := l.input[markerStart:lineStart]
		if strings.TrimLeft(indent, " \t") != "" {
			indent = ""
		}
		lead = indent + "// "
	}

	block, err := comment.NewBlock(name, lead, rows, start, end)
	if err != nil {
		l.addError(start, "%s", err.Error())
	} else {
		if strings.HasSuffix(l.input[lineStart:lineEnd], "\r") {
			block.EOL = "\r\n"
		}
		if err := l.store.Add(block); err != nil {
			l.addError(lineStart, "%s", err.Error())
		}
	}
	l.jumpTo(cursor)
}

// lineBounds returns the end of the line containing pos (exclusive of the
// newline) and the start of the following line.
func (l *Lexer) lineBounds(pos int) (end, next int) {
	if i := strings.IndexByte(l.input[pos:], '\n'); i >= 0 {
		return pos + i, pos + i + 1
	}
	return len(l.input), len(l.input)
}

// jumpTo repositions the cursor at an arbitrary byte offset.
func (l *Lexer) jumpTo(pos int) {
	l.readPosition = pos
	l.readChar()
}

// parseMarker recognizes a `// #name` line and returns the block name.
func parseMarker(line string) (string, bool) {
	s := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(s, "//") {
		return "", false
	}
	s = strings.TrimLeft(s[2:], " \t")
	if len(s) == 0 || s[0] != '#' {
		return "", false
	}
	s = s[1:]
	i := 0
	for i < len(s) && (isLetter(rune(s[i])) || (i > 0 && isDigit(rune(s[i])))) {
		i++
	}
	if i == 0 {
		return "", false
	}
	name, rest := s[:i], s[i:]
	if strings.TrimRight(rest, " \t\r") != "" {
		return "", false
	}
	return name, true
}

// parseRow recognizes a row line: comment lead, backtick, row characters and
// a closing pipe as the line's final character. The lead (everything before
// the backtick) is preserved for re-rendering.
func parseRow(line string) (lead, row string, ok bool) {
	line = strings.TrimRight(line, "\r")
	s := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(s, "//") {
		return "", "", false
	}
	open := strings.IndexRune(line, comment.RowOpen)
	if open < 0 {
		return "", "", false
	}
	body := line[open+1:]
	if len(body) == 0 || rune(body[len(body)-1]) != comment.RowClose {
		return "", "", false
	}
	return line[:open], body[:len(body)-1], true
}

// readString assumes l.ch is the opening quote. Strings are single-line;
// hitting a newline or EOF before the closing quote is a load error.
func (l *Lexer) readString() token.Token {
	var result strings.Builder
	startPosition := l.position
	l.readChar() // consume the opening "

	for {
		if l.ch == 0 || l.ch == '\n' {
			l.addError(startPosition, "unterminated string literal")
			return token.Token{Type: token.ILLEGAL, Literal: result.String(), Position: startPosition}
		}

		if l.ch == '"' {
			l.readChar() // consume the closing "
			break
		}

		if l.ch == '\\' {
			l.readChar() // move to the escaped character
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			default:
				result.WriteRune('\\')
				result.WriteRune(l.ch)
			}
		} else {
			result.WriteRune(l.ch)
		}

		l.readChar()
	}

	return token.Token{
		Type:     token.STRING,
		Literal:  result.String(),
		Position: startPosition,
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// readIdentifier returns the substring (bytes) covering the identifier runes
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}

func newToken(tokenType token.TokenType, ch rune, position int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Position: position}
}
