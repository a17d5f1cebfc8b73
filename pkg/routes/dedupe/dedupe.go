package dedupe

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/matching"
)

// Register registers duplicate candidate routes
func Register(g *echo.Group) {
	g.GET("", ListDuplicateCandidates)
}

// ListDuplicateCandidates computes and returns duplicate account clusters.
// mode selects the matching basis: name, address, or both (the default).
func ListDuplicateCandidates(c echo.Context) error {
	ctx := c.Request().Context()
	mode := c.QueryParam("mode")

	ctx, svc, err := ectoinject.GetContext[*matching.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.FindDuplicates(ctx, mode)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
