package resolver

import (
	"regexp"
	"strings"
)

// Pattern is a compiled service-name pattern: either a literal unit name or a
// glob compiled into an anchored regular expression. Compiled once per spec
// per cycle, then tested against each discovered unit name.
type Pattern struct {
	source  string
	literal bool
	re      *regexp.Regexp
}

// IsGlob reports whether name contains glob metacharacters.
func IsGlob(name string) bool {
	return strings.ContainsAny(name, "*?[")
}

// Compile builds a Pattern from a spec name. Literal names compile to an
// exact-equality matcher; glob names translate to an anchored regexp where
// '*' matches any run of characters, '?' exactly one, and '[...]' a character
// class ('[!...]' negates, as in fnmatch).
func Compile(name string) (*Pattern, error) {
	if !IsGlob(name) {
		return &Pattern{source: name, literal: true}, nil
	}

	re, err := regexp.Compile(translate(name))
	if err != nil {
		return nil, err
	}
	return &Pattern{source: name, re: re}, nil
}

// Match reports whether unit matches the pattern. Matching is always
// full-string, never substring.
func (p *Pattern) Match(unit string) bool {
	if p.literal {
		return unit == p.source
	}
	return p.re.MatchString(unit)
}

// Source returns the original spec name the pattern was compiled from.
func (p *Pattern) Source() string {
	return p.source
}

// IsLiteral reports whether the pattern is an exact name rather than a glob.
func (p *Pattern) IsLiteral() bool {
	return p.literal
}

// translate converts a glob into an anchored regexp source string.
func translate(glob string) string {
	var b strings.Builder
	b.WriteString(`\A`)

	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := charClassEnd(runes, i)
			if end < 0 {
				// Unterminated class: treat the bracket literally.
				b.WriteString(regexp.QuoteMeta("["))
				continue
			}
			b.WriteString(charClass(runes[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`\z`)
	return b.String()
}

// charClassEnd finds the index of the ']' closing the class opened at start,
// or -1 if the class never closes. A ']' in the first position (after an
// optional '!') is part of the class, matching fnmatch behavior.
func charClassEnd(runes []rune, start int) int {
	i := start + 1
	if i < len(runes) && runes[i] == '!' {
		i++
	}
	if i < len(runes) && runes[i] == ']' {
		i++
	}
	for ; i < len(runes); i++ {
		if runes[i] == ']' {
			return i
		}
	}
	return -1
}

// charClass renders the inside of a glob character class as regexp source.
func charClass(inner []rune) string {
	var b strings.Builder
	b.WriteString("[")
	for i, c := range inner {
		switch {
		case i == 0 && c == '!':
			b.WriteString("^")
		case c == '\\' || (c == '^' && i == 0):
			b.WriteString(`\` + string(c))
		default:
			b.WriteRune(c)
		}
	}
	b.WriteString("]")
	return b.String()
}
