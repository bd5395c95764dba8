package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/harborpoint/dealroom/internal/model"
)

// The model is instructed to self-report the documents it used as a trailing
// line `SOURCES: 1, 3`. Parsing is best-effort: the model is not guaranteed
// to honor the format, and the caller falls open to the full citation
// manifest when it does not.
var sourcesLineRegex = regexp.MustCompile(`(?i)(?:^|\n)[ \t]*SOURCES:[ \t]*([\d,\s]*)$`)

// parseSourcesLine splits raw model output into the answer text and the
// self-reported source indices. found reports whether a SOURCES line was
// present at all; the line (and any blank lines before it) is stripped from
// the answer when it is. Malformed index tokens are skipped.
func parseSourcesLine(raw string) (answer string, indices []int, found bool) {
	trimmed := strings.TrimRight(raw, " \t\r\n")
	loc := sourcesLineRegex.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		return trimmed, nil, false
	}
	capture := trimmed[loc[2]:loc[3]]
	for _, token := range strings.Split(capture, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil || n <= 0 {
			continue
		}
		indices = append(indices, n)
	}
	answer = strings.TrimRight(trimmed[:loc[0]], " \t\r\n")
	return answer, indices, true
}

// filterCitations keeps only the citations whose source index the model
// claimed to use. An empty used set fails open and returns everything
// offered.
func filterCitations(citations []model.Citation, used []int) []model.Citation {
	if len(used) == 0 {
		return citations
	}
	set := make(map[int]struct{}, len(used))
	for _, idx := range used {
		set[idx] = struct{}{}
	}
	out := make([]model.Citation, 0, len(citations))
	for _, c := range citations {
		if _, ok := set[c.SourceIndex]; ok {
			out = append(out, c)
		}
	}
	return out
}
