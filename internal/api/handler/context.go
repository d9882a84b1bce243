package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/savefarm/savefarm/internal/api/middleware"
	"github.com/savefarm/savefarm/internal/core/domain"
)

// ctxUsername returns the account injected by the Session middleware. An
// empty value means the route was mounted without it.
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get(middleware.ContextUsername).(string)
	if username == "" {
		return "", domain.ErrUnauthenticated
	}
	return username, nil
}

func ctxToken(c echo.Context) string {
	token, _ := c.Get(middleware.ContextToken).(string)
	return token
}

// bindAndValidate decodes the body into req and runs struct validation. Both
// failures surface as bad requests.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.Invalid(err.Error())
	}
	return nil
}
