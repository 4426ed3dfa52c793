package domain

// CheckoutResult is what the payment helper reports back to the caller.
// Required=false means the plan is free; Available=false means the payment
// subsystem is off or failed and the application stays pending for manual follow-up.
type CheckoutResult struct {
	ApplicationID string        `json:"application_id"`
	Required      bool          `json:"required"`
	Available     bool          `json:"available"`
	SessionID     string        `json:"session_id,omitempty"`
	RedirectURL   string        `json:"redirect_url,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
}
