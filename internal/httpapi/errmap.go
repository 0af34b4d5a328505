package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"textile-trade-tracker/pkg"
)

// writeErr maps the typed domain errors onto HTTP statuses: validation
// failures are the caller's fault, missing rows are 404, batch conflicts
// 409, store failures a 502 from the database's point of view.
func writeErr(c echo.Context, err error) error {
	var (
		validation pkg.ErrValidation
		notFound   pkg.ErrNotFound
		conflict   pkg.ErrConflict
		store      *pkg.ErrStoreProcedure
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &store):
		status = http.StatusBadGateway
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
