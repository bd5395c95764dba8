package service

import (
	"context"

	"github.com/harborpoint/dealroom/internal/model"
	"github.com/harborpoint/dealroom/internal/repo"
)

type InvestmentService struct {
	investments *repo.InvestmentRepo
}

func NewInvestmentService(investments *repo.InvestmentRepo) *InvestmentService {
	return &InvestmentService{investments: investments}
}

func (s *InvestmentService) Get(ctx context.Context, investmentID string) (*model.Investment, error) {
	return s.investments.GetByID(ctx, investmentID)
}

func (s *InvestmentService) List(ctx context.Context, limit, offset uint) ([]model.Investment, error) {
	if limit == 0 || limit > 100 {
		limit = 100
	}
	return s.investments.List(ctx, limit, offset)
}
