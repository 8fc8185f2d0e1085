package handler

import (
	"computop-gateway/internal/adapter/http/dto"
	"computop-gateway/internal/core/ports"
	"computop-gateway/pkg/apperror"
	"computop-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CheckoutHandler handles the platform-side checkout trigger.
type CheckoutHandler struct {
	checkoutSvc ports.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutSvc ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc}
}

// Checkout handles POST /api/v1/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		response.Error(c, apperror.Validation("payment_id must be a UUID"))
		return
	}

	redirect, err := h.checkoutSvc.BuildRedirect(c.Request.Context(), ports.CheckoutRequest{
		OrderCode: req.OrderCode,
		PaymentID: paymentID,
		Method:    req.Method,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CheckoutResponse{RedirectURL: redirect})
}
