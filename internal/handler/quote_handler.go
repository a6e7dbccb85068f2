package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/esim-pricing-service/internal/dto"
	"github.com/anyulbade/esim-pricing-service/internal/service"
)

type QuoteHandler struct {
	svc *service.QuoteService
}

func NewQuoteHandler(svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	quote, err := h.svc.Quote(c.Request.Context(), req.PlanID, req.ReferralCode)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *QuoteHandler) ListPlans(c *gin.Context) {
	country := strings.ToUpper(c.Query("country"))
	referralCode := c.Query("referral_code")
	p := dto.ParsePagination(c)

	plans, totalItems, referral, err := h.svc.ListPlans(c.Request.Context(), country, referralCode, p.PageSize, p.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":             plans,
		"referral_applied": referral,
		"pagination":       dto.NewPagination(p.Page, p.PageSize, totalItems),
	})
}

func (h *QuoteHandler) ListCountries(c *gin.Context) {
	countries, referral, err := h.svc.ListCountries(c.Request.Context(), c.Query("referral_code"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":             countries,
		"referral_applied": referral,
	})
}
