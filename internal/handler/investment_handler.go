package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harborpoint/dealroom/internal/pkg/response"
	"github.com/harborpoint/dealroom/internal/service"
)

type InvestmentHandler struct {
	investments *service.InvestmentService
}

func NewInvestmentHandler(investments *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investments: investments}
}

func (h *InvestmentHandler) List(c *gin.Context) {
	limit, _ := strconv.ParseUint(c.DefaultQuery("limit", "50"), 10, 32)
	offset, _ := strconv.ParseUint(c.DefaultQuery("offset", "0"), 10, 32)
	items, err := h.investments.List(c.Request.Context(), uint(limit), uint(offset))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (h *InvestmentHandler) Get(c *gin.Context) {
	item, err := h.investments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, item)
}
