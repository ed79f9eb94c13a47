package dto

// BuyResponse is what GET /buy/:id answers with. Exactly one field is set,
// depending on the checkout mode.
type BuyResponse struct {
	ClientSecret string `json:"clientSecret,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
}

type IntentPayload struct {
	ClientSecret string `json:"clientSecret" validate:"required"`
}

type SessionPayload struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type CreateAdjustmentRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Percentage uint   `json:"percentage" validate:"max=100"`
}
