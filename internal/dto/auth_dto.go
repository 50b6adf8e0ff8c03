package dto

// LoginRequest authenticates an admin at the management API: the same card
// and PIN used at the kiosk, exchanged for a bearer token.
type LoginRequest struct {
	CardID string `json:"card_id" validate:"required"`
	PIN    string `json:"pin"     validate:"required,len=4,numeric"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}
