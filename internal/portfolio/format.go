package portfolio

import (
	"regexp"
	"sort"
	"strings"
)

var sectionMarkerRE = func() map[Section]*regexp.Regexp {
	out := make(map[Section]*regexp.Regexp, len(Sections))
	for _, s := range Sections {
		out[s] = regexp.MustCompile(`(?i)\*\*\s*` + regexp.QuoteMeta(s.Heading()) + `\s*:?\s*\*\*:?`)
	}
	return out
}()

type markerHit struct {
	section    Section
	start, end int
}

// FormatResponse splits raw model output into the five sections.
//
// Markers match case-insensitively and may carry a trailing colon. The first
// occurrence of each marker wins; later duplicates stay in the surrounding
// text. A section runs to the next located marker or the end of the text.
// Text before the first marker is discarded and a missing marker leaves its
// section empty. When no marker is found at all the whole text becomes the
// summary so the caller still gets something to show.
func FormatResponse(raw string) GeneratedContent {
	hits := make([]markerHit, 0, len(Sections))
	for _, s := range Sections {
		loc := sectionMarkerRE[s].FindStringIndex(raw)
		if loc == nil {
			continue
		}
		hits = append(hits, markerHit{section: s, start: loc[0], end: loc[1]})
	}

	var out GeneratedContent
	if len(hits) == 0 {
		out.Summary = strings.TrimSpace(raw)
		return out
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })
	for i, h := range hits {
		stop := len(raw)
		if i+1 < len(hits) {
			stop = hits[i+1].start
		}
		out.set(h.section, strings.TrimSpace(raw[h.end:stop]))
	}
	return out
}
