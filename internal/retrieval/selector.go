package retrieval

import (
	"strings"

	"github.com/harborpoint/dealroom/internal/model"
)

const (
	// DefaultMaxContextChars bounds the total snippet content injected into
	// a prompt. Roughly 2,000 tokens.
	DefaultMaxContextChars = 8000

	// Documents at or under these sizes are included verbatim instead of
	// windowed. The direct threshold is larger because the unfiltered path
	// has no keyword positions to window around.
	fullIncludeKeywordChars = 2000
	fullIncludeDirectChars  = 10000

	// Window around the best keyword hit.
	windowBeforeChars = 500
	windowAfterChars  = 1000

	// Head-of-document fallback for long documents without a keyword hit.
	headFallbackChars = 2000

	// At most this many documents are offered when nothing matched the
	// question, so the model always has some grounding material.
	noMatchDocLimit = 3

	previewChars = 200

	ellipsis = "..."
)

// ContextEntry is one selected document plus the snippet that will appear in
// the prompt. SourceIndex is 1-based and matches prompt presentation order.
type ContextEntry struct {
	Document    model.DealDocument
	Snippet     string
	SourceIndex int
}

type Selection struct {
	Entries    []ContextEntry
	Citations  []model.Citation
	TotalChars int
}

// Select converts accessor candidates into a budget-bounded prompt context
// and a parallel citation manifest. Documents are consumed in candidate
// order; the first document whose snippet would push the running total past
// the budget ends the selection (it is skipped whole, never truncated
// mid-snippet).
func Select(cands *Candidates, maxBudget int) *Selection {
	if maxBudget <= 0 {
		maxBudget = DefaultMaxContextChars
	}
	sel := &Selection{
		Entries:   make([]ContextEntry, 0, len(cands.Documents)),
		Citations: make([]model.Citation, 0, len(cands.Documents)),
	}
	docs := cands.Documents
	limit := len(docs)
	if !cands.KeywordMatched && len(cands.Keywords) > 0 && limit > noMatchDocLimit {
		limit = noMatchDocLimit
	}
	for i := 0; i < limit; i++ {
		doc := docs[i]
		var snippet string
		switch {
		case cands.KeywordMatched:
			snippet = keywordSnippet(doc.Content, cands.Keywords)
		case len(cands.Keywords) > 0:
			// Keywords existed but matched nothing: head-truncated sample.
			snippet = headSnippet(doc.Content, headFallbackChars)
		default:
			// No keywords at all (empty or all-stop-word question).
			if len(doc.Content) <= fullIncludeDirectChars {
				snippet = doc.Content
			} else {
				snippet = headSnippet(doc.Content, headFallbackChars)
			}
		}
		if snippet == "" {
			continue
		}
		if sel.TotalChars+len(snippet) > maxBudget {
			break
		}
		sel.add(doc, snippet)
	}
	return sel
}

func (s *Selection) add(doc model.DealDocument, snippet string) {
	index := len(s.Entries) + 1
	s.Entries = append(s.Entries, ContextEntry{Document: doc, Snippet: snippet, SourceIndex: index})
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	s.Citations = append(s.Citations, model.Citation{
		SourceIndex:    index,
		DocumentID:     doc.ID,
		Title:          title,
		SnippetPreview: headSnippet(snippet, previewChars),
	})
	s.TotalChars += len(snippet)
}

// keywordSnippet extracts the window around the best keyword hit. Hits are
// scored len(keyword)/(index+1): longer keywords matched earlier in the
// document win.
func keywordSnippet(content string, keywords []string) string {
	if len(content) <= fullIncludeKeywordChars {
		return content
	}
	lower := strings.ToLower(content)
	bestPos := -1
	bestScore := 0.0
	for _, kw := range keywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		score := float64(len(kw)) / float64(idx+1)
		if score > bestScore {
			bestScore = score
			bestPos = idx
		}
	}
	if bestPos < 0 {
		return headSnippet(content, headFallbackChars)
	}
	start := bestPos - windowBeforeChars
	if start < 0 {
		start = 0
	}
	end := bestPos + windowAfterChars
	if end > len(content) {
		end = len(content)
	}
	snippet := content[start:end]
	if start > 0 {
		snippet = ellipsis + snippet
	}
	if end < len(content) {
		snippet = snippet + ellipsis
	}
	return snippet
}

func headSnippet(content string, max int) string {
	if len(content) <= max {
		return content
	}
	return content[:max] + ellipsis
}
