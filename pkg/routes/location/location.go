package location

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/merging"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/topology"
)

// Register registers location routes
func Register(g *echo.Group) {
	g.POST("/merge", MergeLocations)
	g.POST("/:id/move", MoveLocation)
	g.POST("/:id/split", SplitLocation)
}

// MergeLocations folds a duplicate location into another. Irreversible.
func MergeLocations(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.MergeLocationsRequest
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

	result, err := engine.MergeLocations(ctx, req.SourceLocationID, req.TargetLocationID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// MoveLocation moves a standalone account's only location under a
// multi-location account
func MoveLocation(c echo.Context) error {
	ctx := c.Request().Context()
	locationID := c.Param("id")

	var req models.MoveLocationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, mutator, err := ectoinject.GetContext[*topology.Mutator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := mutator.AddLocationToMulti(ctx, locationID, req.TargetAccountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// SplitLocation splits a location off a multi-location account into its own
// standalone account
func SplitLocation(c echo.Context) error {
	ctx := c.Request().Context()
	locationID := c.Param("id")

	ctx, mutator, err := ectoinject.GetContext[*topology.Mutator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := mutator.RemoveLocationFromMulti(ctx, locationID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
