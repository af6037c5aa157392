package dto

type SignInRequest struct {
	User string `json:"user" binding:"required"`
}

type SessionResponse struct {
	User        string `json:"user"`
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

type DarkModeRequest struct {
	Enabled bool `json:"enabled"`
}

type DarkModeResponse struct {
	Enabled bool `json:"enabled"`
}
