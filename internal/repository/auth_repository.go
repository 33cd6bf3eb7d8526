package repository

import (
	"context"
	"encoding/json"
)

const loginPath = "/auth/login"

type AuthRepository struct {
	Client *APIClient
}

func NewAuthRepository(client *APIClient) *AuthRepository {
	return &AuthRepository{Client: client}
}

// Login 登录接口不带 Authorization 头
func (r *AuthRepository) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	return r.Client.Post(ctx, loginPath, "", map[string]string{
		"email":    email,
		"password": password,
	})
}
