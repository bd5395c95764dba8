package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/harborpoint/dealroom/internal/pkg/response"
	"github.com/harborpoint/dealroom/internal/service"
)

type DocumentHandler struct {
	documents *service.DocumentService
}

func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.ListForInvestment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": docs})
}
