// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite turns MyST/Jupytext tutorial markdown into notebook-ready
// markdown with a fixed sequence of pattern substitutions.
//
// The pipeline does not parse markdown. Each pass is a regular expression
// over the whole document and a pass that finds nothing leaves the text
// untouched, so partially conforming documents convert without error.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/pdiddy/convert-myst/pkg/types"
)

// Rule names, in pipeline order.
const (
	RuleSetupCells     = "setup-cells"
	RuleSQLCells       = "sql-cells"
	RuleCodeCells      = "code-cells"
	RuleDownloadLinks  = "download-links"
	RuleExerciseBlocks = "exercise-blocks"
	RuleNoteBlocks     = "note-blocks"
)

const (
	// DefaultDataBaseURL is where the tutorial CSV files are published.
	DefaultDataBaseURL = "https://raw.githubusercontent.com/MotherDuck-Open-Source/sql-tutorial/main/data/"
	// DefaultSQLMagic makes the notebook kernel run a cell through DuckDB.
	DefaultSQLMagic = "%%dql"

	// HeaderPattern matches a Jupytext front matter block. Group 1 is the
	// YAML between the delimiter lines.
	HeaderPattern = `(?s)---\n(jupytext:.*?)\n---\n`

	codeCellFence  = "```{code-cell}"
	markdownMarker = `+++ {"cell_type": "markdown"}`
)

// setupCells are inserted after the Jupytext header so the notebook can
// install and load the DuckDB magics before the first SQL cell runs.
const setupCells = "\n" + codeCellFence + "\n" +
	"!pip install --upgrade duckdb magic-duckdb --quiet\n" +
	"```\n\n" +
	codeCellFence + "\n" +
	"%load_ext magic_duckdb\n" +
	"```\n"

// DefaultOptions returns the options used when nothing is configured:
// setup cells on, fetch snippets off.
func DefaultOptions() types.ConversionConfig {
	return types.ConversionConfig{
		IncludeSetupCells: true,
		EmitFetchSnippet:  false,
		DataBaseURL:       DefaultDataBaseURL,
		SQLMagic:          DefaultSQLMagic,
	}
}

// Pipeline applies its rules in order, each to the previous rule's output.
// A Pipeline is immutable after construction and safe for concurrent use.
type Pipeline struct {
	rules []Rule
}

// NewPipeline compiles the rule set for opts. Empty DataBaseURL and SQLMagic
// fall back to the defaults.
func NewPipeline(opts types.ConversionConfig) *Pipeline {
	if opts.DataBaseURL == "" {
		opts.DataBaseURL = DefaultDataBaseURL
	}
	if opts.SQLMagic == "" {
		opts.SQLMagic = DefaultSQLMagic
	}

	var rules []Rule
	if opts.IncludeSetupCells {
		rules = append(rules, TemplateRule(RuleSetupCells,
			HeaderPattern,
			"${0}"+escapeTemplate(setupCells)))
	}
	rules = append(rules,
		LiteralRule(RuleSQLCells, "```SQL", codeCellFence+"\n"+opts.SQLMagic),
		// "```{code-cell}" never contains either tag, so the SQL cells
		// rewritten above are left alone.
		TemplateRule(RuleCodeCells, "```(?:python|bash)", escapeTemplate(codeCellFence)),
		downloadRule(opts.DataBaseURL, opts.EmitFetchSnippet),
		admonitionRule(RuleExerciseBlocks, `\{admonition\} Exercise`, "Exercise"),
		admonitionRule(RuleNoteBlocks, `\{Note\}`, "Note"),
	)
	return &Pipeline{rules: rules}
}

// downloadRule rewrites {Download}`F.csv<./data/F.csv>` into a link on
// baseURL. The local path is matched but dropped.
func downloadRule(baseURL string, fetch bool) Rule {
	return FuncRule(RuleDownloadLinks,
		"\\{Download\\}`(.+?\\.csv)<\\./data/(.+?\\.csv)>`",
		func(groups []string) string {
			filename := groups[1]
			url := baseURL + filename
			link := fmt.Sprintf("[%s](%s)", filename, url)
			if !fetch {
				return link
			}
			return link + "\n\n" + codeCellFence + "\n!wget " + url + "\n```\n"
		})
}

// admonitionRule converts a fenced directive into a bold label framed by
// markdown cell markers. The body is non-greedy so it stops at the first
// closing fence.
func admonitionRule(name, directive, label string) Rule {
	return TemplateRule(name,
		"(?s)```"+directive+"\n(.*?)```",
		escapeTemplate(markdownMarker+"\n\n**"+label+"**\n\n")+"${1}"+escapeTemplate("\n"+markdownMarker+"\n"))
}

// Rules returns the pipeline's rules in application order.
func (p *Pipeline) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Convert rewrites doc through every rule.
func (p *Pipeline) Convert(doc string) string {
	out, _ := p.ConvertWithReport(doc)
	return out
}

// ConvertWithReport rewrites doc and records how many matches each rule
// replaced. Counts are taken on the buffer each rule actually saw.
func (p *Pipeline) ConvertWithReport(doc string) (string, Report) {
	report := Report{Counts: make([]RuleCount, 0, len(p.rules))}
	for _, r := range p.rules {
		var n int
		doc, n = r.Apply(doc)
		report.Counts = append(report.Counts, RuleCount{Rule: r.Name, Matches: n})
	}
	return doc, report
}

// RuleCount is the number of replacements a single rule made.
type RuleCount struct {
	Rule    string `json:"rule" yaml:"rule"`
	Matches int    `json:"matches" yaml:"matches"`
}

// Report lists per-rule match counts in pipeline order.
type Report struct {
	Counts []RuleCount `json:"counts" yaml:"counts"`
}

// Total returns the number of replacements across all rules.
func (r Report) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c.Matches
	}
	return total
}

// Matches returns the count for the named rule, or 0 if the rule did not run.
func (r Report) Matches(rule string) int {
	for _, c := range r.Counts {
		if c.Rule == rule {
			return c.Matches
		}
	}
	return 0
}

// String formats the report as "rule=n" pairs.
func (r Report) String() string {
	parts := make([]string, len(r.Counts))
	for i, c := range r.Counts {
		parts[i] = fmt.Sprintf("%s=%d", c.Rule, c.Matches)
	}
	return strings.Join(parts, " ")
}
