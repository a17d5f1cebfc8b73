package audit

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/ChaseWoodhams/xytex-sub002/internal/repositories/auditlog"
	"github.com/ChaseWoodhams/xytex-sub002/pkg/models"
)

// Register registers audit trail routes
func Register(g *echo.Group) {
	g.GET("", ListAuditEntries)
}

// ListAuditEntries lists audit entries, newest first, optionally filtered to
// one entity
func ListAuditEntries(c echo.Context) error {
	ctx := c.Request().Context()

	entityID := c.QueryParam("entity_id")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, repo, err := ectoinject.GetContext[*auditlog.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, err := repo.List(ctx, entityID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.AuditListResponse{
		Items:      entries,
		TotalCount: len(entries),
	})
}
