package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/harborpoint/dealroom/internal/model"
	"github.com/harborpoint/dealroom/internal/pkg/dbutil"
	appErr "github.com/harborpoint/dealroom/internal/pkg/errors"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	data := map[string]interface{}{
		"id":            conv.ID,
		"investment_id": conv.InvestmentID,
		"ctime":         conv.Ctime,
		"mtime":         conv.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("conversations", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if dbutil.IsConflict(err) {
		return appErr.ErrConflict
	}
	return err
}

func (r *ConversationRepo) GetByID(ctx context.Context, convID string) (*model.Conversation, error) {
	where := map[string]interface{}{"id": convID}
	sqlStr, args, err := builder.BuildSelect("conversations", where, []string{"id", "investment_id", "ctime", "mtime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var conv model.Conversation
	if err := rows.Scan(&conv.ID, &conv.InvestmentID, &conv.Ctime, &conv.Mtime); err != nil {
		return nil, err
	}
	return &conv, nil
}

// AppendTurn assigns the next sequence number within the conversation and
// bumps the conversation mtime. Two concurrent appends can compute the same
// seq; the loser hits the primary key and retries with a fresh MAX.
func (r *ConversationRepo) AppendTurn(ctx context.Context, convID, role, text string, now int64) error {
	var insertErr error
	for attempt := 0; attempt < 3; attempt++ {
		sqlStr := `
			INSERT INTO conversation_turns (conversation_id, seq, role, text, ctime)
			SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?
			FROM conversation_turns WHERE conversation_id = ?
		`
		args := []interface{}{convID, role, text, now, convID}
		sqlStr, args = dbutil.Finalize(sqlStr, args)
		_, insertErr = r.db.ExecContext(ctx, sqlStr, args...)
		if insertErr == nil {
			break
		}
		if !dbutil.IsConflict(insertErr) {
			return insertErr
		}
	}
	if insertErr != nil {
		return appErr.ErrConflict
	}
	upd := `UPDATE conversations SET mtime = ? WHERE id = ?`
	updArgs := []interface{}{now, convID}
	upd, updArgs = dbutil.Finalize(upd, updArgs)
	_, err := r.db.ExecContext(ctx, upd, updArgs...)
	return err
}

func (r *ConversationRepo) ListTurns(ctx context.Context, convID string) ([]model.ConversationTurn, error) {
	where := map[string]interface{}{
		"conversation_id": convID,
		"_orderby":        "seq asc",
	}
	sqlStr, args, err := builder.BuildSelect("conversation_turns", where, []string{
		"conversation_id", "seq", "role", "text", "ctime",
	})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	turns := make([]model.ConversationTurn, 0)
	for rows.Next() {
		var turn model.ConversationTurn
		if err := rows.Scan(&turn.ConversationID, &turn.Seq, &turn.Role, &turn.Text, &turn.Ctime); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// DeleteBefore removes conversations whose last activity predates the cutoff,
// together with their turns. The conversation rows are removed first and
// their ids captured, so a concurrent mtime bump cannot leave a conversation
// stripped of its turns; both deletes commit atomically.
func (r *ConversationRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	delConvs := `DELETE FROM conversations WHERE mtime < ? RETURNING id`
	args := []interface{}{cutoff}
	delConvs, args = dbutil.Finalize(delConvs, args)
	rows, err := tx.QueryContext(ctx, delConvs, args...)
	if err != nil {
		return 0, err
	}
	ids := make([]interface{}, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()
	if len(ids) == 0 {
		return 0, tx.Commit()
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	delTurns := `DELETE FROM conversation_turns WHERE conversation_id IN (` + placeholders + `)`
	delTurns, turnArgs := dbutil.Finalize(delTurns, ids)
	if _, err := tx.ExecContext(ctx, delTurns, turnArgs...); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}
