package handler

import (
	"github.com/coursehub/account-service/internal/core/accounts"
	"github.com/coursehub/account-service/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"    example:"ana@example.com"`
	Password string `json:"password" example:"secret1"`
}

func (r loginRequest) toCommand() accounts.LoginCommand {
	return accounts.LoginCommand{Email: r.Email, Password: r.Password}
}

type registerRequest struct {
	FullName string `json:"full_name" example:"Ana Lima"`
	Username string `json:"username"  example:"ana"`
	Email    string `json:"email"     example:"ana@example.com"`
	Password string `json:"password"  example:"secret1"`
	Degree   string `json:"degree"    example:"Software Engineer"`
}

func (r registerRequest) toCommand() accounts.RegisterCommand {
	return accounts.RegisterCommand{
		FullName: r.FullName,
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Degree:   r.Degree,
	}
}

type profileResponse struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		FullName: p.FullName,
		Email:    p.Email,
		Username: p.Username,
		Token:    p.Token,
	}
}
