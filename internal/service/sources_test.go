package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborpoint/dealroom/internal/model"
)

func TestParseSourcesLine(t *testing.T) {
	cases := []struct {
		name        string
		raw         string
		wantAnswer  string
		wantIndices []int
		wantFound   bool
	}{
		{
			name:       "no sources line",
			raw:        "The projected IRR is 14.2%.",
			wantAnswer: "The projected IRR is 14.2%.",
			wantFound:  false,
		},
		{
			name:        "single index",
			raw:         "The projected IRR is 14.2%.\nSOURCES: 1",
			wantAnswer:  "The projected IRR is 14.2%.",
			wantIndices: []int{1},
			wantFound:   true,
		},
		{
			name:        "multiple indices with blank line stripped",
			raw:         "The sponsor has closed 30 deals.\n\nSOURCES: 1, 3",
			wantAnswer:  "The sponsor has closed 30 deals.",
			wantIndices: []int{1, 3},
			wantFound:   true,
		},
		{
			name:        "case insensitive",
			raw:         "Occupancy is 94%.\nsources: 2",
			wantAnswer:  "Occupancy is 94%.",
			wantIndices: []int{2},
			wantFound:   true,
		},
		{
			name:       "trailing whitespace and empty index list",
			raw:        "No fee details were provided.\nSOURCES:   \n",
			wantAnswer: "No fee details were provided.",
			wantFound:  true,
		},
		{
			name:        "zero index skipped",
			raw:         "Answer.\nSOURCES: 0, 2",
			wantAnswer:  "Answer.",
			wantIndices: []int{2},
			wantFound:   true,
		},
		{
			name:       "sources mid-answer is not a trailing line",
			raw:        "Per SOURCES: 1 in the memo, the pref is 8%.",
			wantAnswer: "Per SOURCES: 1 in the memo, the pref is 8%.",
			wantFound:  false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answer, indices, found := parseSourcesLine(tc.raw)
			require.Equal(t, tc.wantAnswer, answer)
			require.Equal(t, tc.wantIndices, indices)
			require.Equal(t, tc.wantFound, found)
		})
	}
}

func TestFilterCitations(t *testing.T) {
	citations := []model.Citation{
		{SourceIndex: 1, DocumentID: "d1"},
		{SourceIndex: 2, DocumentID: "d2"},
		{SourceIndex: 3, DocumentID: "d3"},
	}

	filtered := filterCitations(citations, []int{1, 3})
	require.Len(t, filtered, 2)
	require.Equal(t, "d1", filtered[0].DocumentID)
	require.Equal(t, "d3", filtered[1].DocumentID)

	// Empty used set fails open.
	require.Equal(t, citations, filterCitations(citations, nil))

	// Indices outside the offered range drop everything.
	require.Empty(t, filterCitations(citations, []int{9}))
}
