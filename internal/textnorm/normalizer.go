// Package textnorm performs line-oriented cleanup of text extracted from
// resume documents before it is handed to the LLM pipeline. Normalization is
// idempotent: applying it twice yields the same output as applying it once.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	separatorLine  = regexp.MustCompile(`^[\s_\-=]+$`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	underscoreRun  = regexp.MustCompile(`_+`)
	hyphenRun      = regexp.MustCompile(`-+`)
	disallowedChar = regexp.MustCompile(`[^\w\s.,!?;:'"\-#@()/]`)
	blankRun       = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw extracted text while preserving markdown-ish
// structure. Separator-only lines are dropped, whitespace runs collapse to a
// single space, hyphen runs collapse outside header lines, characters outside
// the allowed set are stripped and runs of three or more blank lines collapse
// to one.
//
// Any line containing an underscore run anywhere is dropped entirely, not
// just separator-only lines. That is stricter than it sounds and can eat
// legitimate content with underscores in it; it is kept deliberately for
// compatibility with the extraction prompt this text feeds.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if separatorLine.MatchString(line) {
			continue
		}

		if line == "" {
			// Keep single blank lines as section breaks.
			cleaned = append(cleaned, "")
			continue
		}

		if underscoreRun.MatchString(line) {
			continue
		}

		// Header lines keep their hyphens untouched.
		if !strings.HasPrefix(line, "#") {
			line = hyphenRun.ReplaceAllString(line, "-")
		}

		// Strip before collapsing: removing characters can leave whitespace
		// runs behind, and the collapse has to see those for the whole pass
		// to be idempotent.
		line = disallowedChar.ReplaceAllString(line, "")
		line = whitespaceRun.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Stripping can reduce a line like "* - *" to pure separator
		// characters; drop those residues too or a second pass would.
		if separatorLine.MatchString(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	out := strings.Join(cleaned, "\n")
	out = blankRun.ReplaceAllString(out, "\n\n")

	return strings.TrimSpace(out)
}
