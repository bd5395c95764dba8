package retrieval

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/harborpoint/dealroom/internal/model"
)

// DocumentSource is the read-only view of the deal document store consumed
// by the pipeline. Both methods return only indexed documents, longest
// content first.
type DocumentSource interface {
	ListIndexed(ctx context.Context, investmentID string) ([]model.DealDocument, error)
	SearchAnyKeyword(ctx context.Context, investmentID string, keywords []string) ([]model.DealDocument, error)
}

// Candidates is the accessor output handed to the selector.
type Candidates struct {
	Documents []model.DealDocument
	Keywords  []string
	// KeywordMatched is true when Documents came from the keyword-filtered
	// path; false when the keyword set was empty or matched nothing and the
	// full indexed set was returned instead.
	KeywordMatched bool
}

type Accessor struct {
	source DocumentSource
}

func NewAccessor(source DocumentSource) *Accessor {
	return &Accessor{source: source}
}

// Fetch returns the candidate documents for a question. Keyword filtering
// uses OR semantics: a document matching any single keyword qualifies. A
// question with no usable keywords, or keywords matching nothing, falls back
// to the full indexed set. An investment with zero indexed documents yields
// empty Candidates, not an error; the orchestrator owns that distinction.
func (a *Accessor) Fetch(ctx context.Context, investmentID, question string) (*Candidates, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("investment_id", investmentID))
	keywords := ExtractKeywords(question)
	if len(keywords) > 0 {
		docs, err := a.source.SearchAnyKeyword(ctx, investmentID, keywords)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			logger.Debug("keyword filter matched", zap.Int("keywords", len(keywords)), zap.Int("documents", len(docs)))
			return &Candidates{Documents: docs, Keywords: keywords, KeywordMatched: true}, nil
		}
		logger.Debug("keyword filter matched nothing, falling back to full set", zap.Int("keywords", len(keywords)))
	}
	docs, err := a.source.ListIndexed(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	return &Candidates{Documents: docs, Keywords: keywords, KeywordMatched: false}, nil
}
