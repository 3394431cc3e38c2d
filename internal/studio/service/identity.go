package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ============================================================
// Identity (auth service client)
// ============================================================

const AnonymousUser = "anonymous"

// Identity превращает bearer-токен в идентификатор пользователя.
type Identity interface {
	Resolve(ctx context.Context, token string) (string, bool, error)
}

// AuthClient спрашивает auth-сервис: GET {baseURL}/internal/sessions/{token}.
type AuthClient struct {
	httpClient *resty.Client
}

func NewAuthClient(baseURL string) *AuthClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &AuthClient{httpClient: client}
}

type sessionResponse struct {
	UserID string `json:"userId"`
}

func (a *AuthClient) Resolve(ctx context.Context, token string) (string, bool, error) {
	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetPathParam("token", token).
		Get("/internal/sessions/{token}")
	if err != nil {
		return "", false, fmt.Errorf("reach auth service: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusUnauthorized:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("auth service status %d", resp.StatusCode())
	}

	// тело разбираем сами: SetResult молча пропускает ответ без JSON content-type
	var body sessionResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", false, fmt.Errorf("decode auth response: %w", err)
	}
	if body.UserID == "" {
		return "", false, nil
	}
	return body.UserID, true, nil
}
