package retrieval_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborpoint/dealroom/internal/model"
	"github.com/harborpoint/dealroom/internal/retrieval"
)

// memorySource mimics the repository contract: indexed docs only, matched by
// case-insensitive substring, longest content first.
type memorySource struct {
	docs []model.DealDocument
}

func (m *memorySource) ListIndexed(ctx context.Context, investmentID string) ([]model.DealDocument, error) {
	out := make([]model.DealDocument, 0, len(m.docs))
	for _, doc := range m.docs {
		if doc.InvestmentID == investmentID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memorySource) SearchAnyKeyword(ctx context.Context, investmentID string, keywords []string) ([]model.DealDocument, error) {
	out := make([]model.DealDocument, 0, len(m.docs))
	for _, doc := range m.docs {
		if doc.InvestmentID != investmentID {
			continue
		}
		lower := strings.ToLower(doc.Content)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out = append(out, doc)
				break
			}
		}
	}
	return out, nil
}

func TestAccessorKeywordPath(t *testing.T) {
	source := &memorySource{docs: []model.DealDocument{
		{ID: "d1", InvestmentID: "inv-1", Content: "Projected IRR is 14% net."},
		{ID: "d2", InvestmentID: "inv-1", Content: "Tenant roster and lease terms."},
	}}
	accessor := retrieval.NewAccessor(source)

	cands, err := accessor.Fetch(context.Background(), "inv-1", "What is the projected IRR?")
	require.NoError(t, err)
	require.True(t, cands.KeywordMatched)
	require.Len(t, cands.Documents, 1)
	require.Equal(t, "d1", cands.Documents[0].ID)
	require.Equal(t, []string{"projected", "irr"}, cands.Keywords)
}

func TestAccessorFallsBackWhenNothingMatches(t *testing.T) {
	source := &memorySource{docs: []model.DealDocument{
		{ID: "d1", InvestmentID: "inv-1", Content: "Tenant roster and lease terms."},
		{ID: "d2", InvestmentID: "inv-1", Content: "Construction budget detail."},
	}}
	accessor := retrieval.NewAccessor(source)

	cands, err := accessor.Fetch(context.Background(), "inv-1", "zoning variance status?")
	require.NoError(t, err)
	require.False(t, cands.KeywordMatched)
	require.Len(t, cands.Documents, 2)
	require.NotEmpty(t, cands.Keywords)
}

func TestAccessorNoKeywords(t *testing.T) {
	source := &memorySource{docs: []model.DealDocument{
		{ID: "d1", InvestmentID: "inv-1", Content: "Summary of the offering."},
	}}
	accessor := retrieval.NewAccessor(source)

	cands, err := accessor.Fetch(context.Background(), "inv-1", "what is this?")
	require.NoError(t, err)
	require.False(t, cands.KeywordMatched)
	require.Empty(t, cands.Keywords)
	require.Len(t, cands.Documents, 1)
}

func TestAccessorEmptyStore(t *testing.T) {
	accessor := retrieval.NewAccessor(&memorySource{})

	cands, err := accessor.Fetch(context.Background(), "inv-none", "what about the IRR?")
	require.NoError(t, err)
	require.Empty(t, cands.Documents)
}
