package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"textile-trade-tracker/internal/docstore"
	"textile-trade-tracker/internal/printdoc"
	"textile-trade-tracker/pkg"
)

// orderFormDocument renders the printable order form and files it in the
// order's document folder. The response carries the stored path.
func (s *Server) orderFormDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	ctx := c.Request().Context()

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	doc, err := printdoc.RenderOrderForm(o)
	if err != nil {
		return writeErr(c, err)
	}

	folder := docstore.FolderFor(o.OrderNo, o.BillTo.Name)
	filename := printdoc.DocumentName("order form", time.Now(), ".html")
	path, err := s.documents.Save(folder, filename, doc)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"path": path})
}

type challanLineReq struct {
	DesignCode  string `json:"design_code"`
	ShadeName   string `json:"shade_name"`
	Meters      string `json:"meters"`
	Pieces      int64  `json:"pieces"`
	Rate        string `json:"rate"`
	DiscountPct string `json:"discount_pct"`
}

func (s *Server) challanDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		ChallanNo string           `json:"challan_no"`
		Lines     []challanLineReq `json:"lines"`
	}
	if err := c.Bind(&req); err != nil {
		return writeErr(c, pkg.ErrValidation{Cause: "malformed challan payload"})
	}
	if len(req.Lines) == 0 {
		return writeErr(c, pkg.ErrValidation{Cause: "a challan needs at least one line"})
	}

	ctx := c.Request().Context()
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}

	challan := printdoc.Challan{
		ChallanNo: req.ChallanNo,
		Party:     o.BillTo.Name,
		Transport: o.Transport,
	}
	for _, l := range req.Lines {
		line, err := parseChallanLine(l)
		if err != nil {
			return writeErr(c, err)
		}
		challan.Lines = append(challan.Lines, line)
	}

	doc, err := printdoc.RenderChallan(challan)
	if err != nil {
		return writeErr(c, err)
	}

	folder := docstore.FolderFor(o.OrderNo, o.BillTo.Name)
	filename := printdoc.DocumentName("challan "+req.ChallanNo, time.Now(), ".html")
	path, err := s.documents.Save(folder, filename, doc)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"path":        path,
		"grand_total": challan.GrandTotal().StringFixed(2),
	})
}

func parseChallanLine(l challanLineReq) (printdoc.ChallanLine, error) {
	meters, err := decimal.NewFromString(l.Meters)
	if err != nil {
		return printdoc.ChallanLine{}, pkg.ErrValidation{Cause: "meters must be a decimal number"}
	}
	rate, err := decimal.NewFromString(l.Rate)
	if err != nil {
		return printdoc.ChallanLine{}, pkg.ErrValidation{Cause: "rate must be a decimal number"}
	}
	discount := decimal.Zero
	if l.DiscountPct != "" {
		if discount, err = decimal.NewFromString(l.DiscountPct); err != nil {
			return printdoc.ChallanLine{}, pkg.ErrValidation{Cause: "discount must be a decimal number"}
		}
	}
	return printdoc.ChallanLine{
		DesignCode:  l.DesignCode,
		ShadeName:   l.ShadeName,
		Meters:      meters,
		Pieces:      l.Pieces,
		Rate:        rate,
		DiscountPct: discount,
	}, nil
}
