package dto

// CheckoutRequest is the request body for building a gateway redirect.
type CheckoutRequest struct {
	OrderCode string `json:"order_code" binding:"required,safe_id,max=64"`
	PaymentID string `json:"payment_id" binding:"required,uuid"`
	Method    string `json:"method" binding:"omitempty,safe_id,max=32"`
}

// CheckoutResponse carries the gateway redirect URL for the customer browser.
type CheckoutResponse struct {
	RedirectURL string `json:"redirect_url"`
}
