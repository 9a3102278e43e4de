// Package scanner turns loxer source text into a stream of tokens.
package scanner

import (
	"loxer/token"
)

func isLetter(char byte) bool {
	return 'a' <= char && char <= 'z' || 'A' <= char && char <= 'Z' || char == '_'
}

func isDigit(char byte) bool {
	return '0' <= char && char <= '9'
}

// Scanner produces one Token at a time from a source buffer. It is stateless
// between calls aside from a byte cursor and the current line number: only
// the "current" scanning position is retained, never a backlog of tokens.
type Scanner struct {
	source []byte
	start  int // start of the token currently being scanned
	pos    int // next byte to be read
	line   int32
}

// New constructs a Scanner over the given source text.
func New(source string) *Scanner {
	return &Scanner{source: []byte(source), line: 1}
}

func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.source)
}

func (s *Scanner) advance() byte {
	c := s.source[s.pos]
	s.pos++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *Scanner) peekNext() byte {
	if s.pos+1 >= len(s.source) {
		return 0
	}
	return s.source[s.pos+1]
}

// match consumes the next byte if it equals expected.
func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.pos] != expected {
		return false
	}
	s.pos++
	return true
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.isAtEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) makeToken(kind token.Kind) token.Token {
	return token.Token{
		Kind:   kind,
		Line:   s.line,
		Start:  s.start,
		Length: s.pos - s.start,
	}
}

func (s *Scanner) errorToken(message string) token.Token {
	return token.Token{
		Kind:    token.ERROR,
		Line:    s.line,
		Start:   s.start,
		Length:  s.pos - s.start,
		Message: message,
	}
}

// number scans a digit sequence optionally followed by '.' and more digits.
// A leading or trailing '.' is not part of a number literal in this
// language: "1." and ".5" are rejected, unlike the teacher's original
// lexer which tolerated a leading dot — narrowed here to match the
// language's grammar exactly.
func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.makeToken(token.NUMBER)
}

func (s *Scanner) identifier() token.Token {
	for isLetter(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	text := string(s.source[s.start:s.pos])
	if kind, ok := token.Keywords[text]; ok {
		return s.makeToken(kind)
	}
	return s.makeToken(token.IDENTIFIER)
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.advance() // closing quote
	return s.makeToken(token.STRING)
}

// ScanToken scans and returns the next token in the source. Whitespace and
// comments are skipped first. At end of input it returns an EOF token
// forever.
func (s *Scanner) ScanToken() token.Token {
	s.skipWhitespace()
	s.start = s.pos

	if s.isAtEnd() {
		return s.makeToken(token.EOF)
	}

	c := s.advance()

	if isLetter(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.makeToken(token.LPAREN)
	case ')':
		return s.makeToken(token.RPAREN)
	case '{':
		return s.makeToken(token.LBRACE)
	case '}':
		return s.makeToken(token.RBRACE)
	case ',':
		return s.makeToken(token.COMMA)
	case '.':
		return s.makeToken(token.DOT)
	case ';':
		return s.makeToken(token.SEMICOLON)
	case '+':
		return s.makeToken(token.PLUS)
	case '-':
		return s.makeToken(token.MINUS)
	case '*':
		return s.makeToken(token.STAR)
	case '/':
		return s.makeToken(token.SLASH)
	case '!':
		if s.match('=') {
			return s.makeToken(token.BANG_EQUAL)
		}
		return s.makeToken(token.BANG)
	case '=':
		if s.match('=') {
			return s.makeToken(token.EQUAL_EQUAL)
		}
		return s.makeToken(token.ASSIGN)
	case '<':
		if s.match('=') {
			return s.makeToken(token.LESS_EQUAL)
		}
		return s.makeToken(token.LESS)
	case '>':
		if s.match('=') {
			return s.makeToken(token.GREATER_EQUAL)
		}
		return s.makeToken(token.GREATER)
	case '"':
		return s.string()
	}

	return s.errorToken("Unexpected character.")
}

// Lexeme returns the raw source span the token was scanned from.
func (s *Scanner) Lexeme(tok token.Token) string {
	return string(s.source[tok.Start : tok.Start+tok.Length])
}

// UnquotedLexeme returns a String token's text with its surrounding quotes
// stripped.
func (s *Scanner) UnquotedLexeme(tok token.Token) string {
	return string(s.source[tok.Start+1 : tok.Start+tok.Length-1])
}
