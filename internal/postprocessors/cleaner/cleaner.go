// Package cleaner normalises raw page text extracted from documents.
//
// Normalize removes running headers and footers, repairs words hyphenated
// across line breaks and collapses whitespace while keeping paragraph
// breaks and bullet lines intact.
package cleaner

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// ArtifactMinLength is the length a repeated line must exceed to count
	// as a running header or footer.
	ArtifactMinLength = 10

	// Artifact lines appear on at least artifactPercent of the pages.
	artifactPercent = 60

	paragraphMark = '\uE000'
	bulletMark    = '\uE001'
)

// BulletPrefixes are line starts kept on their own line after cleaning.
var BulletPrefixes = []string{"•", "●", "▪", "◦", "- "}

var (
	lineBreakPadding = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankLines       = regexp.MustCompile(`\n{2,}`)
	spaceRuns        = regexp.MustCompile(`[ \t]{2,}`)
)

// Normalize turns the raw text of a document's pages into one cleaned string.
//
// Repeated lines are removed with a global string replace, so body text that
// matches a running header verbatim is removed as well.
func Normalize(pages []string) string {
	if len(pages) == 0 {
		return ""
	}

	sanitized := make([]string, len(pages))
	for i, p := range pages {
		sanitized[i] = sanitize(p)
	}

	text := strings.Join(sanitized, "\n")
	for _, artifact := range RepeatedLines(sanitized) {
		// Whole-line occurrences take their line break with them.
		text = strings.ReplaceAll(text, artifact+"\n", "")
		text = strings.ReplaceAll(text, artifact, "")
	}

	text = RepairHyphenation(text)
	text = collapseWhitespace(text)
	return strings.TrimSpace(flattenLines(text))
}

// RepeatedLines returns the trimmed lines that appear on at least 60% of
// the pages and are longer than ArtifactMinLength characters, longest first.
// A line is counted once per page.
//
// Single-page documents have no artifacts: with one page every line would
// meet the threshold and the whole body would be removed.
func RepeatedLines(pages []string) []string {
	if len(pages) < 2 {
		return nil
	}

	counts := make(map[string]int)
	for _, page := range pages {
		seen := make(map[string]bool)
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			counts[line]++
		}
	}

	var artifacts []string
	for line, n := range counts {
		if n*100 < len(pages)*artifactPercent {
			continue
		}
		if utf8.RuneCountInString(line) > ArtifactMinLength {
			artifacts = append(artifacts, line)
		}
	}

	sort.Slice(artifacts, func(i, j int) bool {
		if len(artifacts[i]) != len(artifacts[j]) {
			return len(artifacts[i]) > len(artifacts[j])
		}
		return artifacts[i] < artifacts[j]
	})
	return artifacts
}

// RepairHyphenation joins words split as "infor-\nmação" or "infor- mação".
// A hyphen is removed only when a letter precedes it and whitespace followed
// by a letter comes after it.
func RepairHyphenation(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '-' && i > 0 && unicode.IsLetter(runes[i-1]) {
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			if j > i+1 && j < len(runes) && unicode.IsLetter(runes[j]) {
				i = j - 1
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sanitize(page string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', paragraphMark, bulletMark:
			return -1
		}
		return r
	}, page)
}

func collapseWhitespace(text string) string {
	text = lineBreakPadding.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return spaceRuns.ReplaceAllString(text, " ")
}

// flattenLines turns single line breaks into spaces. Paragraph breaks and
// bullet lines are swapped for marks first and restored afterwards.
func flattenLines(text string) string {
	text = strings.ReplaceAll(text, "\n\n", string(paragraphMark))
	for _, prefix := range BulletPrefixes {
		text = strings.ReplaceAll(text, "\n"+prefix, string(bulletMark)+prefix)
	}
	text = strings.ReplaceAll(text, "\n", " ")

	text = strings.ReplaceAll(text, string(paragraphMark), "\n\n")
	return strings.ReplaceAll(text, string(bulletMark), "\n")
}
