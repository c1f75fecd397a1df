package model

type OAuth2VerifyRequest struct {
	Type string `json:"type"`

	// Only one of the following is set, depending on which flow the client
	// completed.
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURI  string `json:"redirect_uri"`
}

type OAuth2VerifyResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r *OAuth2VerifyResponse) SessionInfo() map[string]any {
	return map[string]any{"user_id": r.User.ID}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

// AccessToken is the payload carried inside the signed access token.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RefreshToken is the payload carried inside the signed refresh token. The
// counter lets the server detect replay of an already rotated token.
type RefreshToken struct {
	Family  string `json:"family"`
	Counter uint64 `json:"counter"`
}
