package response

import "github.com/rifamaster/rifa-api/internal/domain"

type TokenResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
