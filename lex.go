package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical unit of an expression.
type Token struct {
	// Text is the token's text. Operators are normalized to their ASCII form.
	Text string
	// Num is the value of a number token. It is ±Inf for a literal too large
	// to represent as a float64.
	Num float64
	// Kind is the token's class.
	Kind TokenKind
	// Pos is the column of the token's first rune, counting from 1.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the class of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNum is a number literal, possibly negative.
	TokenNum
	// TokenOp is a binary operator.
	TokenOp
	// TokenFunc is a function name.
	TokenFunc
	// TokenOpen is an open paren.
	TokenOpen
	// TokenClose is a close paren.
	TokenClose

	// tokenBang is the postfix factorial marker. It never leaves Tokenize.
	tokenBang
)

var kindnames = [...]string{
	TokenNone:  "None",
	TokenNum:   "Num",
	TokenOp:    "Op",
	TokenFunc:  "Func",
	TokenOpen:  "Open",
	TokenClose: "Close",
	tokenBang:  "Bang",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

// Operators contains the runes which are considered to be operators. × and ÷
// are accepted as spellings of * and /.
const Operators = "+-*/^×÷"

type lexer struct {
	src   io.RuneScanner
	buf   strings.Builder
	funcs map[string]Func
	rune  int
	start int
	prev  TokenKind
}

func lex(src io.RuneScanner, funcs map[string]Func) *lexer {
	return &lexer{
		src:   src,
		funcs: funcs,
		rune:  1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. At the end of input, the result
// is io.EOF.
func (l *lexer) next() (Token, error) {
	tok, err := l.scan()
	if err == nil {
		l.prev = tok.Kind
	}
	return tok, err
}

func (l *lexer) scan() (Token, error) {
	defer l.buf.Reset()
	tok := Token{Pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			return tok, err
		}
		if unicode.IsSpace(r) {
			tok.Pos++
			continue
		}
		l.start = tok.Pos
		switch {
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			return l.number(tok)
		case unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			if l.funcs[tok.Text] == nil {
				return tok, l.error("function")
			}
			tok.Kind = TokenFunc
			return tok, nil
		case r == '-' && l.prefix():
			// A minus where no operand has been seen yet is the sign of the
			// literal that follows, if one does.
			ok, err := l.signed()
			if err != nil {
				return tok, err
			}
			if ok {
				l.buf.WriteRune('-')
				return l.number(tok)
			}
			tok.Text = "-"
			tok.Kind = TokenOp
			return tok, nil
		case r == '(':
			tok.Text = "("
			tok.Kind = TokenOpen
			return tok, nil
		case r == ')':
			tok.Text = ")"
			tok.Kind = TokenClose
			return tok, nil
		case r == '!':
			tok.Text = "!"
			tok.Kind = tokenBang
			return tok, nil
		default:
			if strings.ContainsRune(Operators, r) {
				tok.Text = opnorm(r)
				tok.Kind = TokenOp
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// prefix returns whether the lexer is at a position where an operand is
// expected, i.e. at the start of input or after an operator or open paren.
func (l *lexer) prefix() bool {
	switch l.prev {
	case TokenNone, TokenOp, TokenOpen:
		return true
	default:
		return false
	}
}

// signed skips whitespace after a prefix minus and reports whether a number
// follows it.
func (l *lexer) signed() (bool, error) {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if unicode.IsSpace(r) {
			continue
		}
		l.unreadRune()
		return '0' <= r && r <= '9' || r == '.', nil
	}
}

// number scans a number literal into tok. The buffer may already hold a sign.
func (l *lexer) number(tok Token) (Token, error) {
	if err := l.scanNum(); err != nil {
		return tok, err
	}
	tok.Text = l.buf.String()
	tok.Kind = TokenNum
	f, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return tok, l.error("number")
	}
	// Out of range literals are ±Inf here. Whether that is an error depends
	// on the arithmetic that consumes the token.
	tok.Num = f
	return tok, nil
}

func (l *lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			break
		}
		if r == '+' || r == '-' {
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if strings.ContainsRune(Operators+"()!", r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error("number")
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number")
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number")
		}
	}
	if !dig || (e && !ed) {
		return l.error("number")
	}
	return nil
}

// scanIdent scans a maximal run of letters.
func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// scan unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		if !unicode.IsLetter(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.start,
	}
}

func opnorm(r rune) string {
	switch r {
	case '×':
		return "*"
	case '÷':
		return "/"
	default:
		return string(r)
	}
}

// tokenize scans all of src. Postfix factorials are rewritten as calls, so
// n! produces the same tokens as fact(n).
func tokenize(src io.RuneScanner, funcs map[string]Func) ([]Token, error) {
	scan := lex(src, funcs)
	var toks []Token
	for {
		tok, err := scan.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		if tok.Kind != tokenBang {
			toks = append(toks, tok)
			continue
		}
		n := len(toks)
		if n == 0 || toks[n-1].Kind != TokenNum || funcs[factName] == nil {
			return nil, &LexError{Text: tok.Text, Col: tok.Pos}
		}
		num := toks[n-1]
		toks = append(toks[:n-1],
			Token{Text: factName, Kind: TokenFunc, Pos: num.Pos},
			Token{Text: "(", Kind: TokenOpen, Pos: num.Pos},
			num,
			Token{Text: ")", Kind: TokenClose, Pos: tok.Pos},
		)
		// The rewritten call ends in a close paren, so a minus after n! is
		// binary.
		scan.prev = TokenClose
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "function", or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the column at which the invalid token starts.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	if err.Kind == "function" {
		return "unknown function at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
