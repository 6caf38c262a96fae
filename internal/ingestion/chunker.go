// Package ingestion implements the study-material ingestion pipeline.
// Raw submitted text is chunked on section breaks and the resulting passages
// replace the corpus held by the vector store. The pipeline is invoked by the
// `crambot learn` CLI command and the POST /api/learn endpoint.
package ingestion

import (
	"regexp"
	"strings"
)

// sectionBreak matches a run of two or more newlines — the boundary between
// study-unit sections in submitted text.
var sectionBreak = regexp.MustCompile(`\n{2,}`)

// Chunk splits raw study text into ordered study-unit passages. Sections are
// delimited by blank lines (two or more consecutive newlines); each section
// is trimmed of surrounding whitespace and blank sections are dropped.
// A single section may be arbitrarily long — there is no size-based
// re-splitting. Returns nil when every section is blank.
func Chunk(text string) []string {
	var chunks []string
	for _, section := range sectionBreak.Split(text, -1) {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		chunks = append(chunks, section)
	}
	return chunks
}
