package service

import (
	"context"

	"github.com/harborpoint/dealroom/internal/model"
	appErr "github.com/harborpoint/dealroom/internal/pkg/errors"
	"github.com/harborpoint/dealroom/internal/repo"
)

// DocumentService exposes read-only document metadata for the UI. Content is
// never returned here; it only ever reaches the prompt pipeline.
type DocumentService struct {
	investments *repo.InvestmentRepo
	documents   *repo.DealDocumentRepo
}

func NewDocumentService(investments *repo.InvestmentRepo, documents *repo.DealDocumentRepo) *DocumentService {
	return &DocumentService{investments: investments, documents: documents}
}

func (s *DocumentService) ListForInvestment(ctx context.Context, investmentID string) ([]model.DealDocument, error) {
	if investmentID == "" {
		return nil, appErr.ErrInvalid
	}
	if _, err := s.investments.GetByID(ctx, investmentID); err != nil {
		return nil, err
	}
	return s.documents.ListMeta(ctx, investmentID)
}
