package props

import "strconv"

// Tri is a three-valued result of evaluating a directive expression.
// Unknown is distinct from false: an unknown #if pushes an unsupported
// context whose #else branch becomes the fallback, while a false #if
// simply activates the #else.
type Tri int

const (
	TriUnknown Tri = iota
	TriFalse
	TriTrue
)

// TriFromBool converts a definite boolean to a Tri.
func TriFromBool(b bool) Tri {
	if b {
		return TriTrue
	}
	return TriFalse
}

func (t Tri) String() string {
	switch t {
	case TriFalse:
		return "false"
	case TriTrue:
		return "true"
	default:
		return "unknown"
	}
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokInt
	tokOp      // run of comparison characters, e.g. ">=" or "=>"
	tokAnd     // &&
	tokOr      // ||
	tokDefined // the "defined" keyword
	tokInvalid // any character sequence outside the grammar
)

type token struct {
	kind tokenKind
	text string
	num  int // set when kind == tokInt
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isOpChar(c byte) bool {
	return c == '=' || c == '!' || c == '<' || c == '>'
}

// tokenize is total: it never fails, mapping unrecognized input to
// tokInvalid tokens that poison the operand they appear in.
func tokenize(expr string) []token {
	var toks []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isIdentStart(c):
			start := i
			for i < len(expr) && isIdentChar(expr[i]) {
				i++
			}
			text := expr[start:i]
			if text == "defined" {
				toks = append(toks, token{kind: tokDefined, text: text})
			} else {
				toks = append(toks, token{kind: tokIdent, text: text})
			}
		case c >= '0' && c <= '9':
			start := i
			for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
				i++
			}
			text := expr[start:i]
			n, err := strconv.Atoi(text)
			if err != nil {
				toks = append(toks, token{kind: tokInvalid, text: text})
			} else {
				toks = append(toks, token{kind: tokInt, text: text, num: n})
			}
		case c == '&':
			if i+1 < len(expr) && expr[i+1] == '&' {
				toks = append(toks, token{kind: tokAnd, text: "&&"})
				i += 2
			} else {
				toks = append(toks, token{kind: tokInvalid, text: "&"})
				i++
			}
		case c == '|':
			if i+1 < len(expr) && expr[i+1] == '|' {
				toks = append(toks, token{kind: tokOr, text: "||"})
				i += 2
			} else {
				toks = append(toks, token{kind: tokInvalid, text: "|"})
				i++
			}
		case isOpChar(c):
			start := i
			for i < len(expr) && isOpChar(expr[i]) {
				i++
			}
			toks = append(toks, token{kind: tokOp, text: expr[start:i]})
		default:
			toks = append(toks, token{kind: tokInvalid, text: string(c)})
			i++
		}
	}
	return toks
}

// exprEval evaluates a token stream lazily, left to right. Operands are
// only parsed when their value can still affect the result, so garbage
// after a decisive short-circuit does not turn the result unknown.
type exprEval struct {
	toks []token
	pos  int
	env  Defines
}

// Evaluate evaluates a #if expression. Precedence low to high is
// || then &&; leaves are "defined SYMBOL" or "VARIABLE OP INTEGER".
// Unknown variables, unknown operators, and malformed operands yield
// TriUnknown, except where a short-circuit decided the result first.
func (d Defines) Evaluate(expression string) Tri {
	toks := tokenize(expression)
	if len(toks) == 0 {
		return TriUnknown
	}
	e := &exprEval{toks: toks, env: d}
	return e.evalOr()
}

func (e *exprEval) peek() (token, bool) {
	if e.pos >= len(e.toks) {
		return token{}, false
	}
	return e.toks[e.pos], true
}

func (e *exprEval) next() (token, bool) {
	t, ok := e.peek()
	if ok {
		e.pos++
	}
	return t, ok
}

// consume advances past the next token if it has the given kind.
func (e *exprEval) consume(kind tokenKind) bool {
	if t, ok := e.peek(); ok && t.kind == kind {
		e.pos++
		return true
	}
	return false
}

// skipToOr discards tokens up to (not including) the next || or the end.
// Used when an AND group is already false and its remaining operands no
// longer need to be evaluable.
func (e *exprEval) skipToOr() {
	for {
		t, ok := e.peek()
		if !ok || t.kind == tokOr {
			return
		}
		e.pos++
	}
}

func (e *exprEval) evalOr() Tri {
	for {
		v := e.evalAnd()
		if v == TriUnknown {
			return TriUnknown
		}
		if v == TriTrue {
			// Short-circuit: later operands cannot change the result.
			e.pos = len(e.toks)
			return TriTrue
		}
		if !e.consume(tokOr) {
			return TriFalse
		}
	}
}

func (e *exprEval) evalAnd() Tri {
	for {
		v := e.evalOperand()
		if v == TriUnknown {
			return TriUnknown
		}
		if v == TriFalse {
			// Short-circuit: skip the rest of this AND group.
			e.skipToOr()
			return TriFalse
		}
		if !e.consume(tokAnd) {
			return TriTrue
		}
	}
}

// evalOperand evaluates one leaf and requires it to end cleanly at a
// delimiter or end of input; a leaf followed by stray tokens is malformed
// and therefore unknown.
func (e *exprEval) evalOperand() Tri {
	v := e.evalLeaf()
	if v == TriUnknown {
		return TriUnknown
	}
	if t, ok := e.peek(); ok && t.kind != tokAnd && t.kind != tokOr {
		return TriUnknown
	}
	return v
}

func (e *exprEval) evalLeaf() Tri {
	t, ok := e.next()
	if !ok {
		return TriUnknown
	}
	switch t.kind {
	case tokDefined:
		sym, ok := e.next()
		if !ok || sym.kind != tokIdent {
			return TriUnknown
		}
		// defined is total: unknown symbols are simply not defined.
		return TriFromBool(e.env.Flags[sym.text])
	case tokIdent:
		op, ok := e.next()
		if !ok || op.kind != tokOp {
			return TriUnknown
		}
		val, ok := e.next()
		if !ok || val.kind != tokInt {
			return TriUnknown
		}
		left, known := e.env.Variables[t.text]
		if !known {
			return TriUnknown
		}
		return compare(left, op.text, val.num)
	}
	return TriUnknown
}

// compare evaluates a leaf comparison. Operators outside the supported
// set yield unknown rather than false, so the #else fallback rule sees
// them as unevaluable.
func compare(left int, operator string, right int) Tri {
	switch operator {
	case "==":
		return TriFromBool(left == right)
	case "!=":
		return TriFromBool(left != right)
	case "<":
		return TriFromBool(left < right)
	case ">":
		return TriFromBool(left > right)
	case "<=":
		return TriFromBool(left <= right)
	case ">=":
		return TriFromBool(left >= right)
	default:
		return TriUnknown
	}
}
