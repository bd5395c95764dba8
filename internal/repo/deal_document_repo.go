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

const (
	DocumentStatusPending = "pending"
	DocumentStatusIndexed = "indexed"
	DocumentStatusFailed  = "failed"
)

var dealDocumentColumns = []string{
	"id", "investment_id", "title", "source_ref", "content", "content_length", "status", "ctime", "mtime",
}

type DealDocumentRepo struct {
	db *sql.DB
}

func NewDealDocumentRepo(db *sql.DB) *DealDocumentRepo {
	return &DealDocumentRepo{db: db}
}

func scanDealDocument(rows *sql.Rows) (*model.DealDocument, error) {
	var doc model.DealDocument
	if err := rows.Scan(&doc.ID, &doc.InvestmentID, &doc.Title, &doc.SourceRef, &doc.Content,
		&doc.ContentLength, &doc.Status, &doc.Ctime, &doc.Mtime); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListIndexed returns every indexed document for an investment, longest
// content first. Ordering is the default relevance prior when no keyword
// signal is available.
func (r *DealDocumentRepo) ListIndexed(ctx context.Context, investmentID string) ([]model.DealDocument, error) {
	where := map[string]interface{}{
		"investment_id": investmentID,
		"status":        DocumentStatusIndexed,
		"_orderby":      "content_length desc, id asc",
	}
	sqlStr, args, err := builder.BuildSelect("deal_documents", where, dealDocumentColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	docs := make([]model.DealDocument, 0)
	for rows.Next() {
		doc, err := scanDealDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// escapeLike neutralizes the LIKE metacharacters so a keyword only ever
// matches itself as a literal substring. Tokens like "pro_forma" keep their
// inner underscore through extraction, and an unescaped "_" would match any
// single character.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// SearchAnyKeyword returns indexed documents whose content contains at least
// one of the keywords as a case-insensitive substring (OR semantics),
// longest content first. An empty keyword list returns no rows; callers fall
// back to ListIndexed.
func (r *DealDocumentRepo) SearchAnyKeyword(ctx context.Context, investmentID string, keywords []string) ([]model.DealDocument, error) {
	if len(keywords) == 0 {
		return []model.DealDocument{}, nil
	}
	sqlStr := `
		SELECT ` + strings.Join(dealDocumentColumns, ", ") + `
		FROM deal_documents
		WHERE investment_id = ? AND status = ?
	`
	args := []interface{}{investmentID, DocumentStatusIndexed}
	conds := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		conds = append(conds, `content ILIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(kw)+"%")
	}
	sqlStr += ` AND (` + strings.Join(conds, " OR ") + `)`
	sqlStr += ` ORDER BY content_length DESC, id ASC`
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	docs := make([]model.DealDocument, 0)
	for rows.Next() {
		doc, err := scanDealDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// ListMeta returns indexed document metadata without the content column, for
// listing endpoints that never need the full text.
func (r *DealDocumentRepo) ListMeta(ctx context.Context, investmentID string) ([]model.DealDocument, error) {
	where := map[string]interface{}{
		"investment_id": investmentID,
		"status":        DocumentStatusIndexed,
		"_orderby":      "content_length desc, id asc",
	}
	sqlStr, args, err := builder.BuildSelect("deal_documents", where, []string{
		"id", "investment_id", "title", "source_ref", "content_length", "status", "ctime", "mtime",
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
	docs := make([]model.DealDocument, 0)
	for rows.Next() {
		var doc model.DealDocument
		if err := rows.Scan(&doc.ID, &doc.InvestmentID, &doc.Title, &doc.SourceRef,
			&doc.ContentLength, &doc.Status, &doc.Ctime, &doc.Mtime); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DealDocumentRepo) GetByID(ctx context.Context, investmentID, docID string) (*model.DealDocument, error) {
	where := map[string]interface{}{
		"id":            docID,
		"investment_id": investmentID,
	}
	sqlStr, args, err := builder.BuildSelect("deal_documents", where, dealDocumentColumns)
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
	return scanDealDocument(rows)
}

func (r *DealDocumentRepo) Create(ctx context.Context, doc *model.DealDocument) error {
	data := map[string]interface{}{
		"id":             doc.ID,
		"investment_id":  doc.InvestmentID,
		"title":          doc.Title,
		"source_ref":     doc.SourceRef,
		"content":        doc.Content,
		"content_length": doc.ContentLength,
		"status":         doc.Status,
		"ctime":          doc.Ctime,
		"mtime":          doc.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("deal_documents", []map[string]interface{}{data})
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
