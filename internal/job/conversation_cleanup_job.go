package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/harborpoint/dealroom/internal/repo"
)

// ConversationCleanupJob drops assistant conversations that have been idle
// longer than the retention window.
type ConversationCleanupJob struct {
	conversations *repo.ConversationRepo
	maxAge        time.Duration
}

func NewConversationCleanupJob(conversations *repo.ConversationRepo, maxAge time.Duration) *ConversationCleanupJob {
	return &ConversationCleanupJob{conversations: conversations, maxAge: maxAge}
}

func (j *ConversationCleanupJob) Name() string {
	return "conversation_cleanup"
}

func (j *ConversationCleanupJob) Run(ctx context.Context) error {
	if j.conversations == nil {
		return nil
	}
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	cutoff := time.Now().Add(-maxAge).UnixMilli()
	deleted, err := j.conversations.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("expired conversations removed", zap.Int64("count", deleted))
	}
	return nil
}
