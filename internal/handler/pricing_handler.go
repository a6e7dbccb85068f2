package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/esim-pricing-service/internal/dto"
	"github.com/anyulbade/esim-pricing-service/internal/service"
)

type PricingHandler struct {
	svc *service.PreviewService
}

func NewPricingHandler(svc *service.PreviewService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

func (h *PricingHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	preview, err := h.svc.Preview(c.Request.Context(), *req.Price)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

func (h *PricingHandler) Compute(c *gin.Context) {
	var req dto.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	res, err := h.svc.Compute(c.Request.Context(), *req.OriginalPrice, req.HasReferralCode, req.Settings)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pricing":      res,
		"has_discount": res.HasDiscount(),
	})
}
