package query

import (
	apperrors "github.com/searchlabs/boolean-retrieval-platform/pkg/errors"
)

// Normalizer maps a raw query operand to its indexed term form. It returns
// the empty string when the operand normalises to nothing, in which case
// the operand matches no documents.
type Normalizer func(word string) string

// Parse turns a boolean query string into an expression tree.
//
// Grammar:
//
//	expr := unit { ("AND" ["NOT"] | "OR") unit }
//	unit := ["NOT"] (TERM | "(" expr ")")
//
// Operators are applied strictly left to right with no precedence between
// AND and OR: "a AND b OR c" parses as "(a AND b) OR c". This mirrors the
// sequential evaluation of the legacy queries this engine replaces; use
// parentheses to group explicitly. "AND NOT" is a single binary operator.
//
// Malformed queries (empty input, adjacent terms without an operator, an
// operator missing an operand, unbalanced or empty parentheses) fail with
// an error wrapping errors.ErrSyntax.
func Parse(raw string, normalize Normalizer) (Expr, error) {
	if normalize == nil {
		normalize = func(word string) string { return word }
	}
	tokens := lex(raw)
	if len(tokens) == 0 {
		return nil, syntaxError("empty query")
	}
	p := &parser{tokens: tokens, normalize: normalize}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, syntaxErrorf("unexpected %q", tok.text)
	}
	return expr, nil
}

type parser struct {
	tokens    []token
	pos       int
	normalize Normalizer
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// parseExpr folds units left to right. depth tracks parenthesis nesting so
// a closing paren is only accepted inside a group.
func (p *parser) parseExpr(depth int) (Expr, error) {
	left, err := p.parseUnit()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok {
			return left, nil
		}
		switch tok.kind {
		case tokenAnd:
			p.pos++
			if nxt, ok := p.peek(); ok && nxt.kind == tokenNot {
				p.pos++
				right, err := p.parsePrimary()
				if err != nil {
					return nil, err
				}
				left = AndNot{Left: left, Right: right}
				continue
			}
			right, err := p.parseUnit()
			if err != nil {
				return nil, err
			}
			left = And{Left: left, Right: right}
		case tokenOr:
			p.pos++
			right, err := p.parseUnit()
			if err != nil {
				return nil, err
			}
			left = Or{Left: left, Right: right}
		case tokenRParen:
			if depth > 0 {
				return left, nil
			}
			return nil, syntaxError("unbalanced ')'")
		default:
			return nil, syntaxErrorf("missing operator before %q", tok.text)
		}
	}
}

// parseUnit parses an optionally negated primary.
func (p *parser) parseUnit() (Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, syntaxError("missing operand")
	}
	if tok.kind == tokenNot {
		p.pos++
		inner, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return Not{Expr: inner}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses a term or a parenthesised sub-expression.
func (p *parser) parsePrimary() (Expr, error) {
	tok, ok := p.next()
	if !ok {
		return nil, syntaxError("missing operand")
	}
	switch tok.kind {
	case tokenTerm:
		return Term{Value: p.normalize(tok.text)}, nil
	case tokenLParen:
		if nxt, ok := p.peek(); !ok {
			return nil, syntaxError("unbalanced '('")
		} else if nxt.kind == tokenRParen {
			return nil, syntaxError("empty parentheses")
		}
		inner, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		closing, ok := p.next()
		if !ok || closing.kind != tokenRParen {
			return nil, syntaxError("unbalanced '('")
		}
		return inner, nil
	case tokenAnd, tokenOr:
		return nil, syntaxErrorf("operator %q has no left operand", tok.text)
	case tokenNot:
		return nil, syntaxErrorf("unexpected %q", tok.text)
	default:
		return nil, syntaxErrorf("unexpected %q", tok.text)
	}
}

func syntaxError(message string) error {
	return apperrors.New(apperrors.ErrSyntax, 400, message)
}

func syntaxErrorf(format string, args ...any) error {
	return apperrors.Newf(apperrors.ErrSyntax, 400, format, args...)
}
