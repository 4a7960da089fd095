// Package catalogue extracts program records from program catalogue
// documents with a single-pass, line-based state machine.
package catalogue

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

// Section is the part of a program record currently being read.
type Section int

// Sections of a program record.
const (
	SectionNone Section = iota
	SectionStrategicObjectives
	SectionTargetAudience
	SectionResponsibleAgency
	SectionSpecificObjectives
)

// String returns the section name.
func (s Section) String() string {
	switch s {
	case SectionNone:
		return "none"
	case SectionStrategicObjectives:
		return "strategic_objectives"
	case SectionTargetAudience:
		return "target_audience"
	case SectionResponsibleAgency:
		return "responsible_agency"
	case SectionSpecificObjectives:
		return "specific_objectives"
	default:
		return "unknown"
	}
}

const (
	programHeader    = "programa:"
	strategicKeyword = "objetivo geral"
	audienceKeyword  = "publico alvo"
	agencyKeyword    = "orgao responsavel"
	specificKeyword  = "objetivos especificos do programa"
	strategicBullet  = "•"
	audienceBullet   = "-"
)

var specificObjective = regexp.MustCompile(`^\d{4} - `)

// state is the accumulator threaded through the fold.
type state struct {
	section Section
	current *domain.ProgramRecord
	records []domain.ProgramRecord
}

// Parse folds over the lines of one document.
// Blank lines are dropped before the fold.
func Parse(lines []string) []domain.ProgramRecord {
	return ParsePages([][]string{lines})
}

// ParsePages folds over a document page by page. Section state carries
// across pages, while the responsible-agency look-ahead stays within a page.
func ParsePages(pages [][]string) []domain.ProgramRecord {
	st := &state{}
	for _, page := range pages {
		st.page(compact(page))
	}
	st.flush()

	if st.records == nil {
		return []domain.ProgramRecord{}
	}
	return st.records
}

// SplitPages splits raw page texts into lines.
func SplitPages(pages []string) [][]string {
	out := make([][]string, len(pages))
	for i, p := range pages {
		out[i] = strings.Split(strings.ReplaceAll(p, "\r", ""), "\n")
	}
	return out
}

func (st *state) page(lines []string) {
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		key := Fold(line)

		switch {
		case strings.HasPrefix(key, programHeader):
			st.flush()
			rec := domain.NewProgramRecord(line)
			st.current = &rec
			st.section = SectionNone

		case strings.Contains(key, strategicKeyword):
			st.section = SectionStrategicObjectives

		case strings.Contains(key, audienceKeyword):
			st.section = SectionTargetAudience

		case strings.Contains(key, agencyKeyword):
			st.section = SectionResponsibleAgency
			if i+1 < len(lines) {
				if st.current != nil {
					st.current.ResponsibleAgency = lines[i+1]
				}
				i++
			}

		case strings.Contains(key, specificKeyword):
			st.section = SectionSpecificObjectives

		default:
			st.capture(line)
		}
	}
}

func (st *state) capture(line string) {
	if st.current == nil {
		return
	}
	rec := st.current

	switch st.section {
	case SectionStrategicObjectives:
		if strings.HasPrefix(line, strategicBullet) {
			rec.StrategicObjectives = append(rec.StrategicObjectives, line)
		}
	case SectionTargetAudience:
		switch {
		case strings.HasPrefix(line, audienceBullet):
			rec.TargetAudience = append(rec.TargetAudience, line)
		case len(rec.TargetAudience) == 0:
			// At most one prefix-less line: the list is no longer empty after it.
			rec.TargetAudience = append(rec.TargetAudience, line)
		}
	case SectionSpecificObjectives:
		if specificObjective.MatchString(line) {
			rec.SpecificObjectives = append(rec.SpecificObjectives, line)
		}
	case SectionNone, SectionResponsibleAgency:
	}
}

func (st *state) flush() {
	if st.current != nil {
		st.records = append(st.records, *st.current)
		st.current = nil
	}
}

func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Fold returns the lower-cased line with diacritics removed, for keyword
// matching only.
func Fold(line string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, line)
	if err != nil {
		folded = line
	}
	return strings.ToLower(folded)
}
