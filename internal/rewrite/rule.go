// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"regexp"
	"strings"
)

// Rule is one rewrite pass: every non-overlapping match of Pattern, leftmost
// first, is replaced. A Rule holds no state between calls.
type Rule struct {
	// Name identifies the pass in reports and debug logs.
	Name string

	pattern  *regexp.Regexp
	template string
	expand   func(groups []string) string
}

// TemplateRule builds a rule whose replacement is a regexp template
// ("${1}" refers to the first capture group).
func TemplateRule(name, pattern, template string) Rule {
	return Rule{Name: name, pattern: regexp.MustCompile(pattern), template: template}
}

// LiteralRule builds a rule that replaces every occurrence of old with repl.
// Neither string is interpreted as a pattern or template.
func LiteralRule(name, old, repl string) Rule {
	return Rule{
		Name:     name,
		pattern:  regexp.MustCompile(regexp.QuoteMeta(old)),
		template: escapeTemplate(repl),
	}
}

// FuncRule builds a rule whose replacement is computed from the match.
// groups[0] is the whole match; groups[i] is capture group i.
func FuncRule(name, pattern string, expand func(groups []string) string) Rule {
	return Rule{Name: name, pattern: regexp.MustCompile(pattern), expand: expand}
}

// Pattern returns the source text of the rule's regular expression.
func (r Rule) Pattern() string {
	return r.pattern.String()
}

// Apply rewrites src and returns the result with the number of matches
// replaced. When nothing matches, src is returned unchanged.
func (r Rule) Apply(src string) (string, int) {
	matches := r.pattern.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, 0
	}

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, m := range matches {
		b.WriteString(src[last:m[0]])
		if r.expand != nil {
			b.WriteString(r.expand(submatches(src, m)))
		} else {
			b.Write(r.pattern.ExpandString(nil, r.template, src, m))
		}
		last = m[1]
	}
	b.WriteString(src[last:])
	return b.String(), len(matches)
}

// submatches turns an index slice from FindAllStringSubmatchIndex into the
// captured strings. Unmatched optional groups become "".
func submatches(src string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = src[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

// escapeTemplate makes s safe to use as a literal regexp template.
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
