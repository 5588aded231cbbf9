// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleApply(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		input     string
		want      string
		wantCount int
	}{
		{
			name:      "literal replaces every occurrence",
			rule:      LiteralRule("lit", "a.b", "$1"),
			input:     "a.b axb a.b",
			want:      "$1 axb $1",
			wantCount: 2,
		},
		{
			name:      "template expands groups",
			rule:      TemplateRule("tpl", `(\w+)@(\w+)`, "${2} at ${1}"),
			input:     "duck@pond",
			want:      "pond at duck",
			wantCount: 1,
		},
		{
			name: "func sees capture groups",
			rule: FuncRule("fn", `<(\w+)>`, func(g []string) string {
				return strings.ToUpper(g[1])
			}),
			input:     "<a> and <bc>",
			want:      "A and BC",
			wantCount: 2,
		},
		{
			name:      "no match returns input",
			rule:      LiteralRule("lit", "zzz", "y"),
			input:     "abc",
			want:      "abc",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := tt.rule.Apply(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCount, n)
		})
	}
}

func TestSubmatches_UnmatchedGroup(t *testing.T) {
	r := FuncRule("opt", `a(b)?c`, func(g []string) string {
		return "[" + g[1] + "]"
	})
	got, _ := r.Apply("ac abc")
	assert.Equal(t, "[] [b]", got)
}

func TestRulePattern(t *testing.T) {
	assert.Equal(t, `\{Note\}`, LiteralRule("n", "{Note}", "x").Pattern())
}
