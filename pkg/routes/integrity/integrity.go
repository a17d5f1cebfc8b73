package integrity

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/merging"
)

// Register registers the integrity scan route
func Register(g *echo.Group) {
	g.GET("", ScanReferences)
}

// ScanReferences runs the system-wide orphan scan. A clean report means every
// dependent record still points at a live account and location.
func ScanReferences(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, engine, err := ectoinject.GetContext[*merging.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := engine.VerifyReferences(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
