package account

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/merging"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
)

// Register registers account routes
func Register(g *echo.Group) {
	g.POST("/merge", MergeAccounts)
}

// MergeAccounts merges duplicate single-location accounts into one
// multi-location account. Irreversible.
func MergeAccounts(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.MergeAccountsRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, engine, err := ectoinject.GetContext[*merging.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := engine.MergeAccounts(ctx, req.AccountIDs, req.PrimaryAccountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
