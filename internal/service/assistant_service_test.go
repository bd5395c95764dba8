package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborpoint/dealroom/internal/ai"
	"github.com/harborpoint/dealroom/internal/model"
	appErr "github.com/harborpoint/dealroom/internal/pkg/errors"
)

type scriptSource struct {
	searchDocs []model.DealDocument
	listDocs   []model.DealDocument
}

func (s *scriptSource) ListIndexed(ctx context.Context, investmentID string) ([]model.DealDocument, error) {
	return s.listDocs, nil
}

func (s *scriptSource) SearchAnyKeyword(ctx context.Context, investmentID string, keywords []string) ([]model.DealDocument, error) {
	return s.searchDocs, nil
}

type scriptGenerator struct {
	response string
	err      error
	calls    int
	lastReq  *ai.ChatRequest
}

func (g *scriptGenerator) Generate(ctx context.Context, req *ai.ChatRequest) (string, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func newTestAssistant(source *scriptSource, gen *scriptGenerator) *AssistantService {
	manager := ai.NewManager(gen, ai.ManagerConfig{MaxInputChars: 4000})
	return NewAssistantService(source, manager, nil, AssistantOptions{})
}

func indexedDoc(id, title, content string) model.DealDocument {
	return model.DealDocument{
		ID:            id,
		InvestmentID:  "inv-1",
		Title:         title,
		Content:       content,
		ContentLength: len(content),
		Status:        "indexed",
	}
}

func TestRespondNoIndexedDocuments(t *testing.T) {
	svc := newTestAssistant(&scriptSource{}, &scriptGenerator{response: "unused"})

	_, err := svc.Respond(context.Background(), "inv-1", "What is the projected IRR?", nil)
	require.ErrorIs(t, err, appErr.ErrNotIndexed)
}

func TestRespondSingleDocumentWithSources(t *testing.T) {
	source := &scriptSource{searchDocs: []model.DealDocument{
		indexedDoc("d1", "Offering Summary", "The projected IRR for the deal is 14.2%."),
	}}
	gen := &scriptGenerator{response: "The projected IRR is 14.2%.\n\nSOURCES: 1"}
	svc := newTestAssistant(source, gen)

	answer, err := svc.Respond(context.Background(), "inv-1", "What is the projected IRR?", nil)
	require.NoError(t, err)
	require.Equal(t, "The projected IRR is 14.2%.", answer.AnswerText)
	require.Len(t, answer.Citations, 1)
	require.Equal(t, 1, answer.Citations[0].SourceIndex)
	require.Equal(t, "d1", answer.Citations[0].DocumentID)
	require.Equal(t, "Offering Summary", answer.Citations[0].Title)
}

func TestRespondMissingSourcesLineFailsOpen(t *testing.T) {
	source := &scriptSource{searchDocs: []model.DealDocument{
		indexedDoc("d1", "Memo", "Occupancy across the portfolio is 94%."),
		indexedDoc("d2", "Lease Abstract", "Occupancy covenants require 85% minimum."),
	}}
	gen := &scriptGenerator{response: "Occupancy is 94%, above the 85% covenant floor."}
	svc := newTestAssistant(source, gen)

	answer, err := svc.Respond(context.Background(), "inv-1", "occupancy levels?", nil)
	require.NoError(t, err)
	require.Len(t, answer.Citations, 2)
}

func TestRespondSubsetOfSources(t *testing.T) {
	source := &scriptSource{searchDocs: []model.DealDocument{
		indexedDoc("d1", "A", "Sponsor overview mentioning fees."),
		indexedDoc("d2", "B", "Fee schedule detail."),
		indexedDoc("d3", "C", "Waterfall and fees."),
	}}
	gen := &scriptGenerator{response: "A 2% management fee applies.\nSOURCES: 1, 3"}
	svc := newTestAssistant(source, gen)

	answer, err := svc.Respond(context.Background(), "inv-1", "fee structure?", nil)
	require.NoError(t, err)
	require.Equal(t, "A 2% management fee applies.", answer.AnswerText)
	require.Len(t, answer.Citations, 2)
	require.Equal(t, "d1", answer.Citations[0].DocumentID)
	require.Equal(t, "d3", answer.Citations[1].DocumentID)
}

func TestRespondPromptShape(t *testing.T) {
	source := &scriptSource{searchDocs: []model.DealDocument{
		indexedDoc("d1", "Offering Summary", "The projected IRR for the deal is 14.2%."),
	}}
	gen := &scriptGenerator{response: "ok"}
	svc := newTestAssistant(source, gen)

	_, err := svc.Respond(context.Background(), "inv-1", "projected IRR?", nil)
	require.NoError(t, err)
	require.NotNil(t, gen.lastReq)
	require.NotEmpty(t, gen.lastReq.System)
	require.Len(t, gen.lastReq.Turns, 1)
	prompt := gen.lastReq.Turns[0].Text
	require.True(t, strings.HasPrefix(prompt, "Question: projected IRR?"))
	require.Contains(t, prompt, "[1] Offering Summary")
	require.Contains(t, prompt, "The projected IRR for the deal is 14.2%.")
	require.Contains(t, prompt, "SOURCES:")
}

func TestRespondReplaysHistory(t *testing.T) {
	source := &scriptSource{searchDocs: []model.DealDocument{
		indexedDoc("d1", "Memo", "Hold period is five years."),
	}}
	gen := &scriptGenerator{response: "Five years."}
	svc := newTestAssistant(source, gen)

	history := []model.ChatTurn{
		{Role: model.RoleUser, Text: "What is the hold period?"},
		{Role: model.RoleAssistant, Text: "Five years per the memo."},
	}
	_, err := svc.Respond(context.Background(), "inv-1", "and the exit assumptions?", history)
	require.NoError(t, err)
	require.Len(t, gen.lastReq.Turns, 3)
	require.Equal(t, model.RoleUser, gen.lastReq.Turns[0].Role)
	require.Equal(t, model.RoleAssistant, gen.lastReq.Turns[1].Role)
	require.Equal(t, model.RoleUser, gen.lastReq.Turns[2].Role)
}

func TestRespondBackendErrorPropagates(t *testing.T) {
	source := &scriptSource{searchDocs: []model.DealDocument{
		indexedDoc("d1", "Memo", "Some grounded content."),
	}}
	backendErr := errors.New("rate limited")
	svc := newTestAssistant(source, &scriptGenerator{err: backendErr})

	_, err := svc.Respond(context.Background(), "inv-1", "anything grounded?", nil)
	require.ErrorIs(t, err, backendErr)
}

func TestRespondRejectsInvalidInput(t *testing.T) {
	svc := newTestAssistant(&scriptSource{}, &scriptGenerator{response: "unused"})

	_, err := svc.Respond(context.Background(), "inv-1", "   ", nil)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Respond(context.Background(), "", "valid question", nil)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Respond(context.Background(), "inv-1", strings.Repeat("q", 4001), nil)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestRespondCachesFirstTurnAnswers(t *testing.T) {
	source := &scriptSource{searchDocs: []model.DealDocument{
		indexedDoc("d1", "Memo", "Minimum investment is $50,000."),
	}}
	gen := &scriptGenerator{response: "Minimum is $50,000.\nSOURCES: 1"}
	svc := newTestAssistant(source, gen)

	first, err := svc.Respond(context.Background(), "inv-1", "minimum investment?", nil)
	require.NoError(t, err)
	second, err := svc.Respond(context.Background(), "inv-1", "minimum investment?", nil)
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls)
	require.Equal(t, first, second)
}

func TestChatWithoutPersistenceStore(t *testing.T) {
	source := &scriptSource{searchDocs: []model.DealDocument{
		indexedDoc("d1", "Memo", "Distributions are quarterly."),
	}}
	svc := newTestAssistant(source, &scriptGenerator{response: "Quarterly.\nSOURCES: 1"})

	answer, conversationID, err := svc.Chat(context.Background(), "inv-1", "distribution cadence?", "")
	require.NoError(t, err)
	require.Empty(t, conversationID)
	require.Equal(t, "Quarterly.", answer.AnswerText)
}
