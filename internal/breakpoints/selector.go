package breakpoints

import (
	"errors"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Reasons a range attribute selector was recognized but rejected
var (
	// ErrNoFragment means the range attribute is not attached directly to a
	// class or id selector (e.g. "div[width-range~=...]" or ".a [width-range~=...]")
	ErrNoFragment = errors.New("range attribute must follow a class or id selector")

	// ErrUnsupportedOperator means the attribute uses an operator other than ~= or =
	ErrUnsupportedOperator = errors.New("range attribute must use the ~= or = operator")

	// ErrUnquotedValue means the attribute value is not a quoted string
	ErrUnquotedValue = errors.New("range value must be a quoted string")

	// ErrMalformedRange means the value has no "-" separating min and max
	ErrMalformedRange = errors.New(`range value must have the form "<min>-<max>" or "<min>-"`)
)

// Match is a breakpoint recognized in one selector clause
type Match struct {
	Dimension   Dimension
	Declaration Declaration
}

// Rejection is a width-range/height-range attribute selector that does not
// follow the breakpoint grammar
type Rejection struct {
	Dimension Dimension
	Reason    error
}

type token struct {
	tt   css.TokenType
	text string
}

// lex tokenizes a selector clause. Comments are dropped.
func lex(clause string) []token {
	l := css.NewLexer(parse.NewInputString(clause))
	var tokens []token
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return tokens
		}
		if tt == css.CommentToken {
			continue
		}
		tokens = append(tokens, token{tt: tt, text: string(data)})
	}
}

// ParseSelector extracts the breakpoints declared by a single selector
// clause (one comma-separated part of a selector list). At most one
// breakpoint per dimension is returned.
//
// The recognized grammar is
//
//	<fragment>[<dim>-range ~= "<min>-<max>"]
//
// where <fragment> is a run of class and id selectors written directly in
// front of the bracket (".grid", "#main", ".v-csslayout.mystyle"), and <max>
// may be empty for an open upper bound. A plain "=" operator is accepted.
// Anything before the last combinator or whitespace is context and ignored.
// The clause is lower-cased before matching.
func ParseSelector(clause string) []Match {
	matches, _ := Inspect(clause)
	return matches
}

// Inspect is ParseSelector that also reports range attribute selectors that
// were present but did not follow the grammar
func Inspect(clause string) ([]Match, []Rejection) {
	tokens := lex(strings.ToLower(clause))

	var (
		matches    []Match
		rejections []Rejection
		seen       [len(Dimensions)]bool
		fragment   strings.Builder
	)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.tt == css.DelimToken && tok.text == ".":
			if i+1 < len(tokens) && tokens[i+1].tt == css.IdentToken {
				fragment.WriteString("." + tokens[i+1].text)
				i++
				continue
			}
			fragment.Reset()

		case tok.tt == css.HashToken:
			fragment.WriteString(tok.text)

		case tok.tt == css.LeftBracketToken:
			dim, decl, end, err := parseAttribute(tokens, i)
			if end < 0 {
				// not a range attribute: the compound is no longer a bare fragment
				fragment.Reset()
				skipToBracketEnd(tokens, &i)
				continue
			}
			i = end
			switch {
			case err != nil:
				rejections = append(rejections, Rejection{Dimension: dim, Reason: err})
			case fragment.Len() == 0:
				rejections = append(rejections, Rejection{Dimension: dim, Reason: ErrNoFragment})
			case !seen[dim]:
				seen[dim] = true
				decl.Fragment = fragment.String()
				matches = append(matches, Match{Dimension: dim, Declaration: decl})
			}

		default:
			// whitespace, combinators, type and pseudo selectors
			fragment.Reset()
		}
	}

	return matches, rejections
}

// parseAttribute parses a bracketed attribute selector starting at the '['
// at tokens[start]. end is the index of the closing ']' when the attribute
// is width-range or height-range, -1 when it is some other attribute.
func parseAttribute(tokens []token, start int) (dim Dimension, decl Declaration, end int, err error) {
	i := skipWhitespace(tokens, start+1)
	if i >= len(tokens) || tokens[i].tt != css.IdentToken {
		return 0, decl, -1, nil
	}
	dim, ok := DimensionForAttribute(tokens[i].text)
	if !ok {
		return 0, decl, -1, nil
	}

	end = start
	skipToBracketEnd(tokens, &end)

	i = skipWhitespace(tokens, i+1)
	if i >= len(tokens) {
		return dim, decl, end, ErrUnsupportedOperator
	}
	op := tokens[i]
	if op.tt != css.IncludeMatchToken && !(op.tt == css.DelimToken && op.text == "=") {
		return dim, decl, end, ErrUnsupportedOperator
	}

	i = skipWhitespace(tokens, i+1)
	if i >= len(tokens) || tokens[i].tt != css.StringToken {
		return dim, decl, end, ErrUnquotedValue
	}
	value := unquote(tokens[i].text)

	i = skipWhitespace(tokens, i+1)
	if i != end {
		// trailing flags such as [width-range~="0-1" i] are not part of the grammar
		return dim, decl, end, ErrUnquotedValue
	}

	minToken, maxToken, found := strings.Cut(value, "-")
	if !found {
		return dim, decl, end, ErrMalformedRange
	}
	return dim, Declaration{Min: minToken, Max: maxToken}, end, nil
}

func skipWhitespace(tokens []token, i int) int {
	for i < len(tokens) && tokens[i].tt == css.WhitespaceToken {
		i++
	}
	return i
}

// skipToBracketEnd advances *i to the ']' closing the bracket at *i, or to
// the last token when the bracket is never closed
func skipToBracketEnd(tokens []token, i *int) {
	for *i < len(tokens)-1 && tokens[*i].tt != css.RightBracketToken {
		*i++
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	// unterminated string tokens keep only the opening quote
	if len(s) >= 1 && (s[0] == '"' || s[0] == '\'') {
		return s[1:]
	}
	return s
}

// SplitSelectorList splits a selector list on top-level commas. Commas
// inside brackets, parentheses or strings do not split.
func SplitSelectorList(selectorText string) []string {
	var (
		clauses []string
		depth   int
		quote   byte
		start   int
	)
	for i := 0; i < len(selectorText); i++ {
		c := selectorText[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			clauses = append(clauses, selectorText[start:i])
			start = i + 1
		}
	}
	return append(clauses, selectorText[start:])
}
