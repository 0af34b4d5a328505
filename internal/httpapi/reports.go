package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"textile-trade-tracker/internal/designcode"
	"textile-trade-tracker/internal/printdoc"
	"textile-trade-tracker/pkg"
)

func (s *Server) designCounts(c echo.Context) error {
	ctx := c.Request().Context()

	if prefix := c.QueryParam("prefix"); prefix != "" {
		counts, err := s.reports.DesignsWithPrefix(ctx, prefix)
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, counts)
	}
	if category := c.QueryParam("category"); category != "" {
		counts, err := s.reports.DesignsInCategory(ctx, designcode.Category(category))
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, counts)
	}

	counts, err := s.reports.CountByDesign(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (s *Server) partyCounts(c echo.Context) error {
	counts, err := s.reports.CountByParty(c.Request().Context())
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (s *Server) bhiwandiList(c echo.Context) error {
	entries, err := s.reports.BhiwandiList(c.Request().Context())
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) dispatchList(c echo.Context) error {
	entries, err := s.reports.DispatchList(c.Request().Context())
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) partyEntries(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	entries, err := s.reports.EntriesForParty(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) priceSuggestion(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	design := c.QueryParam("design")
	if design == "" {
		return writeErr(c, pkg.ErrValidation{Cause: "design query parameter is required"})
	}

	suggestion, err := s.prices.Suggest(c.Request().Context(), id, design)
	if err != nil {
		return writeErr(c, err)
	}
	if suggestion == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"price": suggestion.Price,
		"exact": suggestion.Exact,
	})
}

func (s *Server) buildProgram(c echo.Context) error {
	var req struct {
		EntryIDs     []int64        `json:"entry_ids"`
		ColourCounts map[string]int `json:"colour_counts"`
	}
	if err := c.Bind(&req); err != nil {
		return writeErr(c, pkg.ErrValidation{Cause: "malformed program payload"})
	}

	lines, err := s.reports.Program(c.Request().Context(), req.EntryIDs, req.ColourCounts)
	if err != nil {
		return writeErr(c, err)
	}

	if c.QueryParam("format") == "html" {
		doc, err := printdoc.RenderDyeingProgram(lines)
		if err != nil {
			return writeErr(c, err)
		}
		return c.HTMLBlob(http.StatusOK, doc)
	}
	return c.JSON(http.StatusOK, lines)
}

func (s *Server) dispatchListSheet(c echo.Context) error {
	ctx := c.Request().Context()
	entries, err := s.reports.DispatchList(ctx)
	if err != nil {
		return writeErr(c, err)
	}

	orders := make(map[int64]printdoc.OrderRef, len(entries))
	for _, e := range entries {
		if _, ok := orders[e.OrderID]; ok {
			continue
		}
		o, err := s.orders.GetOrder(ctx, e.OrderID)
		if err != nil {
			return writeErr(c, err)
		}
		orders[e.OrderID] = printdoc.OrderRef{No: o.OrderNo, Party: o.BillTo.Name}
	}

	var buf bytes.Buffer
	if err := printdoc.ExportDispatchList(&buf, "Dispatch List", entries, orders); err != nil {
		return writeErr(c, err)
	}

	filename := printdoc.DocumentName("dispatch list", time.Now(), ".xlsx")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
