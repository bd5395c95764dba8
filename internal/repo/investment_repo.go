package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/harborpoint/dealroom/internal/model"
	"github.com/harborpoint/dealroom/internal/pkg/dbutil"
	appErr "github.com/harborpoint/dealroom/internal/pkg/errors"
)

const (
	InvestmentStateActive   = 1
	InvestmentStateArchived = 2
)

type InvestmentRepo struct {
	db *sql.DB
}

func NewInvestmentRepo(db *sql.DB) *InvestmentRepo {
	return &InvestmentRepo{db: db}
}

func (r *InvestmentRepo) GetByID(ctx context.Context, investmentID string) (*model.Investment, error) {
	where := map[string]interface{}{
		"id":    investmentID,
		"state": InvestmentStateActive,
	}
	sqlStr, args, err := builder.BuildSelect("investments", where, []string{
		"id", "name", "sponsor", "summary", "state", "ctime", "mtime",
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
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var item model.Investment
	if err := rows.Scan(&item.ID, &item.Name, &item.Sponsor, &item.Summary, &item.State, &item.Ctime, &item.Mtime); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InvestmentRepo) List(ctx context.Context, limit, offset uint) ([]model.Investment, error) {
	where := map[string]interface{}{
		"state":    InvestmentStateActive,
		"_orderby": "ctime desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("investments", where, []string{
		"id", "name", "sponsor", "summary", "state", "ctime", "mtime",
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
	items := make([]model.Investment, 0)
	for rows.Next() {
		var item model.Investment
		if err := rows.Scan(&item.ID, &item.Name, &item.Sponsor, &item.Summary, &item.State, &item.Ctime, &item.Mtime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *InvestmentRepo) Create(ctx context.Context, inv *model.Investment) error {
	data := map[string]interface{}{
		"id":      inv.ID,
		"name":    inv.Name,
		"sponsor": inv.Sponsor,
		"summary": inv.Summary,
		"state":   inv.State,
		"ctime":   inv.Ctime,
		"mtime":   inv.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("investments", []map[string]interface{}{data})
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
