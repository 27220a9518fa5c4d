package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/account-service/internal/core/accounts"
	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/pipeline"
)

type stubAccountService struct {
	loginFn       func(ctx context.Context, cmd accounts.LoginCommand) (pipeline.Result[domain.Profile], error)
	registerFn    func(ctx context.Context, cmd accounts.RegisterCommand) (pipeline.Result[domain.Profile], error)
	currentUserFn func(ctx context.Context, q accounts.GetCurrentUserQuery) (pipeline.Result[domain.Profile], error)
}

func (s *stubAccountService) Login(ctx context.Context, cmd accounts.LoginCommand) (pipeline.Result[domain.Profile], error) {
	return s.loginFn(ctx, cmd)
}

func (s *stubAccountService) Register(ctx context.Context, cmd accounts.RegisterCommand) (pipeline.Result[domain.Profile], error) {
	return s.registerFn(ctx, cmd)
}

func (s *stubAccountService) CurrentUser(ctx context.Context, q accounts.GetCurrentUserQuery) (pipeline.Result[domain.Profile], error) {
	return s.currentUserFn(ctx, q)
}

var anaProfile = domain.Profile{FullName: "Ana Lima", Email: "ana@example.com", Username: "ana", Token: "tkn"}

func jsonRequest(method, path, body string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestAccountHandler_Login_Success(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(ctx context.Context, cmd accounts.LoginCommand) (pipeline.Result[domain.Profile], error) {
			if cmd.Email != "ana@example.com" || cmd.Password != "secret1" {
				t.Fatalf("unexpected command: %+v", cmd)
			}
			return pipeline.Success(anaProfile), nil
		},
	}
	h := NewAccountHandler(stub)

	rec, c := jsonRequest(http.MethodPost, "/accounts/login", `{"email":"ana@example.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tkn" || resp["full_name"] != "Ana Lima" || resp["username"] != "ana" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_Login_FailureStatuses(t *testing.T) {
	tests := []struct {
		reason string
		want   int
	}{
		{reason: domain.ReasonUserNotFound, want: http.StatusNotFound},
		{reason: domain.ReasonInvalidCredentials, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			stub := &stubAccountService{
				loginFn: func(context.Context, accounts.LoginCommand) (pipeline.Result[domain.Profile], error) {
					return pipeline.Failure[domain.Profile](tt.reason), nil
				},
			}
			_, c := jsonRequest(http.MethodPost, "/accounts/login", `{"email":"a@b.io","password":"secret1"}`)

			err := NewAccountHandler(stub).Login(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != tt.want || he.Message != tt.reason {
				t.Fatalf("expected %d %q, got %d %v", tt.want, tt.reason, he.Code, he.Message)
			}
		})
	}
}

func TestAccountHandler_Login_InvalidPayload(t *testing.T) {
	_, c := jsonRequest(http.MethodPost, "/accounts/login", `{"email":`)

	err := NewAccountHandler(&stubAccountService{}).Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAccountHandler_Register_Created(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, cmd accounts.RegisterCommand) (pipeline.Result[domain.Profile], error) {
			if cmd.FullName != "Ana Lima" || cmd.Degree != "Engineer" || cmd.Username != "ana" {
				t.Fatalf("unexpected command: %+v", cmd)
			}
			return pipeline.Success(anaProfile), nil
		},
	}

	body := `{"full_name":"Ana Lima","username":"ana","email":"ana@example.com","password":"secret1","degree":"Engineer"}`
	rec, c := jsonRequest(http.MethodPost, "/accounts/register", body)
	if err := NewAccountHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAccountHandler_Register_Conflict(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(context.Context, accounts.RegisterCommand) (pipeline.Result[domain.Profile], error) {
			return pipeline.Failure[domain.Profile](domain.ReasonUsernameTaken), nil
		},
	}
	_, c := jsonRequest(http.MethodPost, "/accounts/register", `{"username":"ana"}`)

	err := NewAccountHandler(stub).Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestAccountHandler_Register_ValidationErrorPassesThrough(t *testing.T) {
	failure := &pipeline.ValidationFailure{Errors: []pipeline.ValidationError{{Field: "email", Message: "A valid email is required."}}}
	stub := &stubAccountService{
		registerFn: func(context.Context, accounts.RegisterCommand) (pipeline.Result[domain.Profile], error) {
			return pipeline.Result[domain.Profile]{}, failure
		},
	}
	_, c := jsonRequest(http.MethodPost, "/accounts/register", `{}`)

	err := NewAccountHandler(stub).Register(c)
	if !errors.Is(err, pipeline.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccountHandler_Me(t *testing.T) {
	stub := &stubAccountService{
		currentUserFn: func(ctx context.Context, q accounts.GetCurrentUserQuery) (pipeline.Result[domain.Profile], error) {
			if q.Email != "ana@example.com" {
				t.Fatalf("unexpected email %q", q.Email)
			}
			return pipeline.Success(anaProfile), nil
		},
	}
	rec, c := jsonRequest(http.MethodGet, "/accounts/me", "")
	c.Set("email", "ana@example.com")

	if err := NewAccountHandler(stub).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Me_WithoutClaims(t *testing.T) {
	_, c := jsonRequest(http.MethodGet, "/accounts/me", "")

	err := NewAccountHandler(&stubAccountService{}).Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
