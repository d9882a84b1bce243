package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/savefarm/savefarm/internal/core/ports"
)

type AccountHandler struct {
	service       ports.AccountService
	sessionHeader string
}

// NewAccountHandler reads session tokens for logout from sessionHeader, since
// that route is mounted without the Session middleware.
func NewAccountHandler(service ports.AccountService, sessionHeader string) *AccountHandler {
	return &AccountHandler{service: service, sessionHeader: sessionHeader}
}

// Register creates an account and opens a session for it.
//
// @Summary      Register a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse  "Missing fields or username taken"
// @Failure      500   {object}  errorResponse
// @Router       /api/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.service.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Success: true, SessionID: sess.Token, Username: sess.Username})
}

// Login opens a new session.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Success: true, SessionID: sess.Token, Username: sess.Username})
}

// Logout invalidates the presented session token. It succeeds for missing,
// unknown and already invalidated tokens.
//
// @Summary      Logout
// @Tags         accounts
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  successResponse
// @Router       /api/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	token := ctxToken(c)
	if token == "" && h.sessionHeader != "" {
		token = strings.TrimSpace(c.Request().Header.Get(h.sessionHeader))
	}
	if err := h.service.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// GetAnimals returns the caller's tally.
//
// @Summary      Get saved animals
// @Tags         animals
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  animalsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/animals [get]
func (h *AccountHandler) GetAnimals(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	animals, err := h.service.GetAnimals(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, animalsResponse{Animals: animals})
}

// SetAnimals replaces the caller's tally.
//
// @Summary      Replace saved animals
// @Tags         animals
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      animalsRequest  true  "New tally"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/animals [post]
func (h *AccountHandler) SetAnimals(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	var req animalsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.SetAnimals(c.Request().Context(), username, req.Animals); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// ResetAnimals empties the caller's tally.
//
// @Summary      Reset saved animals
// @Tags         animals
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  successResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/animals/reset [post]
func (h *AccountHandler) ResetAnimals(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	if err := h.service.ResetAnimals(c.Request().Context(), username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
