package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"textile-trade-tracker/internal/order"
	"textile-trade-tracker/internal/shade"
	"textile-trade-tracker/pkg"
)

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, pkg.ErrValidation{Cause: "id must be an integer"}
	}
	return id, nil
}

func (s *Server) createOrder(c echo.Context) error {
	var req order.RequestNewOrder
	if err := c.Bind(&req); err != nil {
		return writeErr(c, pkg.ErrValidation{Cause: "malformed order payload"})
	}

	created, err := s.orders.NewOrder(c.Request().Context(), req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) listOrders(c echo.Context) error {
	includeCancelled := c.QueryParam("include_cancelled") == "true"
	orders, err := s.orders.ListOrders(c.Request().Context(), includeCancelled)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	o, err := s.orders.GetOrder(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (s *Server) cancelOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	if err := s.orders.CancelOrder(c.Request().Context(), id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteOrder(c echo.Context) error {
	return s.idAction(c, s.orders.DeleteOrder)
}

func (s *Server) restoreOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	if err := s.orders.RestoreOrder(c.Request().Context(), id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) updateShades(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	var ledger shade.Ledger
	if err := c.Bind(&ledger); err != nil {
		return writeErr(c, pkg.ErrValidation{Cause: "malformed shade ledger"})
	}
	if err := s.orders.UpdateShades(c.Request().Context(), id, ledger); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) stageEntry(c echo.Context) error {
	return s.idAction(c, s.orders.Stage)
}

func (s *Server) unstageEntry(c echo.Context) error {
	return s.idAction(c, s.orders.Unstage)
}

func (s *Server) unDispatchEntry(c echo.Context) error {
	return s.idAction(c, s.orders.UnDispatch)
}

func (s *Server) cancelEntry(c echo.Context) error {
	return s.idAction(c, s.orders.CancelEntry)
}

func (s *Server) deleteEntry(c echo.Context) error {
	return s.idAction(c, s.orders.DeleteEntry)
}

func (s *Server) idAction(c echo.Context, action func(ctx context.Context, id int64) error) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	if err := action(c.Request().Context(), id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) splitPart(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	entry, err := s.orders.SplitPart(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) dispatchEntries(c echo.Context) error {
	var req struct {
		EntryIDs []int64 `json:"entry_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return writeErr(c, pkg.ErrValidation{Cause: "malformed dispatch payload"})
	}
	if err := s.orders.Dispatch(c.Request().Context(), req.EntryIDs); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) combineBatches(c echo.Context) error {
	var req struct {
		Batches []time.Time `json:"batches"`
	}
	if err := c.Bind(&req); err != nil {
		return writeErr(c, pkg.ErrValidation{Cause: "malformed batch payload"})
	}
	merged, err := s.orders.CombineBatches(c.Request().Context(), req.Batches)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]time.Time{"merged": merged})
}
