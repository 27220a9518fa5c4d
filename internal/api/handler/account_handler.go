package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/account-service/internal/api/metrics"
	"github.com/coursehub/account-service/internal/core/accounts"
	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/pipeline"
)

// AccountService is the accounts module as seen by the HTTP layer.
type AccountService interface {
	Login(ctx context.Context, cmd accounts.LoginCommand) (pipeline.Result[domain.Profile], error)
	Register(ctx context.Context, cmd accounts.RegisterCommand) (pipeline.Result[domain.Profile], error)
	CurrentUser(ctx context.Context, q accounts.GetCurrentUserQuery) (pipeline.Result[domain.Profile], error)
}

type AccountHandler struct {
	accounts AccountService
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Login authenticates with email and password.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /accounts/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.accounts.Login(c.Request().Context(), req.toCommand())
	return respond(c, accounts.KindLogin, http.StatusOK, res, err)
}

// Register creates an account and returns its profile with a fresh token.
//
// @Summary      Register a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  profileResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      409   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /accounts/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.accounts.Register(c.Request().Context(), req.toCommand())
	return respond(c, accounts.KindRegister, http.StatusCreated, res, err)
}

// Me re-issues the profile of the authenticated caller.
//
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  profileResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /accounts/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	email, err := ctxEmail(c)
	if err != nil {
		return err
	}

	res, err := h.accounts.CurrentUser(c.Request().Context(), accounts.GetCurrentUserQuery{Email: email})
	return respond(c, accounts.KindCurrentUser, http.StatusOK, res, err)
}

// respond renders a successful Result with status, a failed one with the
// status of its reason, and hands errors to the HTTP error handler.
func respond(c echo.Context, kind pipeline.Kind, status int, res pipeline.Result[domain.Profile], err error) error {
	if err != nil {
		var vf *pipeline.ValidationFailure
		if errors.As(err, &vf) {
			metrics.CountValidationErrors(kind, vf.Errors)
		}
		return err
	}

	profile, ok := res.Value()
	if !ok {
		return echo.NewHTTPError(failureStatus(res.Reason()), res.Reason())
	}
	return c.JSON(status, toProfileResponse(profile))
}

func failureStatus(reason string) int {
	switch reason {
	case domain.ReasonUserNotFound:
		return http.StatusNotFound
	case domain.ReasonInvalidCredentials:
		return http.StatusUnauthorized
	case domain.ReasonEmailTaken, domain.ReasonUsernameTaken:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
