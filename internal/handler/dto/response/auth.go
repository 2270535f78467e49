package response

import "slotbooker/internal/usecase/queries"

type LoginResponse struct {
	AccessToken  string                        `json:"access_token"`
	RefreshToken string                        `json:"refresh_token"`
	Client       *queries.AuthorizedClientView `json:"client"`
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
