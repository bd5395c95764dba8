package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/harborpoint/dealroom/internal/ai"
	"github.com/harborpoint/dealroom/internal/model"
	appErr "github.com/harborpoint/dealroom/internal/pkg/errors"
	"github.com/harborpoint/dealroom/internal/repo"
	"github.com/harborpoint/dealroom/internal/retrieval"
)

var ErrAIUnavailable = ai.ErrUnavailable

const defaultSystemInstruction = `You answer investor questions about a single deal using only the supplied due-diligence documents. Answer directly, without preamble. When the supplied documents do not contain the information, say so clearly instead of guessing.`

const sourcesDirective = "After your answer, append a final line of the exact form `SOURCES: <comma-separated indices>` listing which of the numbered documents you actually drew upon."

type AssistantOptions struct {
	MaxContextChars   int
	SystemInstruction string
}

// AssistantService runs the grounded chat pipeline for one request:
// candidate fetch, context selection, a single generative call, citation
// reconciliation. It holds no per-request state; concurrent calls need no
// coordination.
type AssistantService struct {
	accessor      *retrieval.Accessor
	manager       *ai.Manager
	conversations *repo.ConversationRepo
	opts          AssistantOptions
	cache         *expirable.LRU[string, string]
}

func NewAssistantService(source retrieval.DocumentSource, manager *ai.Manager, conversations *repo.ConversationRepo, opts AssistantOptions) *AssistantService {
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = retrieval.DefaultMaxContextChars
	}
	if opts.SystemInstruction == "" {
		opts.SystemInstruction = defaultSystemInstruction
	}
	return &AssistantService{
		accessor:      retrieval.NewAccessor(source),
		manager:       manager,
		conversations: conversations,
		opts:          opts,
		cache:         expirable.NewLRU[string, string](4096, nil, 2*time.Hour),
	}
}

// Respond answers a question about an investment grounded in its indexed
// documents. An investment with zero indexed documents returns
// ErrNotIndexed before any model call; generative backend failures are
// propagated verbatim and never retried here.
func (s *AssistantService) Respond(ctx context.Context, investmentID, question string, history []model.ChatTurn) (*model.ChatAnswer, error) {
	investmentID = strings.TrimSpace(investmentID)
	question = strings.TrimSpace(question)
	if investmentID == "" || question == "" {
		return nil, appErr.ErrInvalid
	}
	if max := s.manager.MaxInputChars(); max > 0 && len(question) > max {
		return nil, appErr.ErrInvalid
	}
	logger := logutil.GetLogger(ctx).With(zap.String("investment_id", investmentID))

	cacheKey := ""
	if len(history) == 0 {
		cacheKey = s.cacheKey(investmentID, question)
		if cached, ok := s.cache.Get(cacheKey); ok {
			var answer model.ChatAnswer
			if err := json.Unmarshal([]byte(cached), &answer); err == nil {
				return &answer, nil
			}
		}
	}

	cands, err := s.accessor.Fetch(ctx, investmentID, question)
	if err != nil {
		return nil, err
	}
	if len(cands.Documents) == 0 {
		return nil, appErr.ErrNotIndexed
	}
	sel := retrieval.Select(cands, s.opts.MaxContextChars)

	turns := make([]ai.Turn, 0, len(history)+1)
	for _, turn := range history {
		role := model.RoleUser
		if turn.Role == model.RoleAssistant {
			role = model.RoleAssistant
		}
		turns = append(turns, ai.Turn{Role: role, Text: turn.Text})
	}
	turns = append(turns, ai.Turn{Role: model.RoleUser, Text: buildUserTurn(question, sel)})

	raw, err := s.manager.Generate(ctx, &ai.ChatRequest{System: s.opts.SystemInstruction, Turns: turns})
	if err != nil {
		logger.Error("generative backend call failed", zap.Error(err))
		return nil, err
	}

	answerText, used, _ := parseSourcesLine(raw)
	answer := &model.ChatAnswer{
		AnswerText: answerText,
		Citations:  filterCitations(sel.Citations, used),
	}
	logger.Info("assistant answered",
		zap.Int("documents_offered", len(sel.Entries)),
		zap.Int("context_chars", sel.TotalChars),
		zap.Int("citations", len(answer.Citations)),
	)
	if cacheKey != "" {
		if data, err := json.Marshal(answer); err == nil {
			s.cache.Add(cacheKey, string(data))
		}
	}
	return answer, nil
}

// Chat wraps Respond with conversation persistence: an empty conversationID
// starts a new conversation, otherwise prior turns are replayed as history.
// Persistence failures after a successful answer are logged, not surfaced.
func (s *AssistantService) Chat(ctx context.Context, investmentID, question, conversationID string) (*model.ChatAnswer, string, error) {
	if s.conversations == nil {
		answer, err := s.Respond(ctx, investmentID, question, nil)
		return answer, "", err
	}
	logger := logutil.GetLogger(ctx).With(zap.String("investment_id", investmentID))
	var history []model.ChatTurn
	if conversationID != "" {
		conv, err := s.conversations.GetByID(ctx, conversationID)
		if err != nil {
			return nil, "", err
		}
		if conv.InvestmentID != investmentID {
			return nil, "", appErr.ErrInvalid
		}
		turns, err := s.conversations.ListTurns(ctx, conversationID)
		if err != nil {
			return nil, "", err
		}
		history = make([]model.ChatTurn, 0, len(turns))
		for _, t := range turns {
			history = append(history, model.ChatTurn{Role: t.Role, Text: t.Text})
		}
	}

	answer, err := s.Respond(ctx, investmentID, question, history)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UnixMilli()
	if conversationID == "" {
		conversationID = newID()
		if err := s.conversations.Create(ctx, &model.Conversation{
			ID:           conversationID,
			InvestmentID: investmentID,
			Ctime:        now,
			Mtime:        now,
		}); err != nil {
			logger.Warn("create conversation failed", zap.Error(err))
			return answer, "", nil
		}
	}
	if err := s.conversations.AppendTurn(ctx, conversationID, model.RoleUser, question, now); err != nil {
		logger.Warn("persist question turn failed", zap.Error(err))
	}
	if err := s.conversations.AppendTurn(ctx, conversationID, model.RoleAssistant, answer.AnswerText, time.Now().UnixMilli()); err != nil {
		logger.Warn("persist answer turn failed", zap.Error(err))
	}
	return answer, conversationID, nil
}

func (s *AssistantService) Conversation(ctx context.Context, conversationID string) (*model.Conversation, []model.ConversationTurn, error) {
	if s.conversations == nil {
		return nil, nil, appErr.ErrNotFound
	}
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	turns, err := s.conversations.ListTurns(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	return conv, turns, nil
}

func buildUserTurn(question string, sel *retrieval.Selection) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	if len(sel.Entries) == 0 {
		b.WriteString("No relevant documents were found for this deal. State clearly that the available documents do not cover this question.")
		return b.String()
	}
	b.WriteString("Documents:\n\n")
	for i, entry := range sel.Entries {
		fmt.Fprintf(&b, "[%d] %s\n%s\n\n", entry.SourceIndex, sel.Citations[i].Title, entry.Snippet)
	}
	b.WriteString(sourcesDirective)
	return b.String()
}

func (s *AssistantService) cacheKey(investmentID, question string) string {
	hash := sha256.Sum256([]byte(investmentID + "\x00" + question))
	return "answer:" + hex.EncodeToString(hash[:])
}
