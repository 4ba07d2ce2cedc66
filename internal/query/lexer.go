package query

import "strings"

type tokenKind int

const (
	tokenTerm tokenKind = iota
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokenTerm:
		return "term"
	case tokenAnd:
		return "AND"
	case tokenOr:
		return "OR"
	case tokenNot:
		return "NOT"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	default:
		return "unknown"
	}
}

type token struct {
	kind tokenKind
	text string
}

// lex splits a raw query string into operator, parenthesis, and term
// tokens. Operator keywords are matched case-insensitively; everything
// else is a term operand, normalised later by the parser.
func lex(query string) []token {
	var tokens []token
	var word strings.Builder

	flush := func() {
		if word.Len() == 0 {
			return
		}
		text := word.String()
		word.Reset()
		switch strings.ToUpper(text) {
		case "AND":
			tokens = append(tokens, token{kind: tokenAnd, text: text})
		case "OR":
			tokens = append(tokens, token{kind: tokenOr, text: text})
		case "NOT":
			tokens = append(tokens, token{kind: tokenNot, text: text})
		default:
			tokens = append(tokens, token{kind: tokenTerm, text: text})
		}
	}

	for _, r := range query {
		switch {
		case r == '(':
			flush()
			tokens = append(tokens, token{kind: tokenLParen, text: "("})
		case r == ')':
			flush()
			tokens = append(tokens, token{kind: tokenRParen, text: ")"})
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return tokens
}
