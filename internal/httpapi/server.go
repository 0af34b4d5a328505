package httpapi

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"textile-trade-tracker/internal/docstore"
	"textile-trade-tracker/internal/dyeing"
	"textile-trade-tracker/internal/order"
	"textile-trade-tracker/internal/pkg/config"
	"textile-trade-tracker/internal/price"
	"textile-trade-tracker/internal/report"
)

type Server struct {
	e         *echo.Echo
	cfg       *config.HTTPCfg
	orders    order.Service
	reports   report.Service
	prices    price.Service
	programs  dyeing.Service
	documents docstore.Service
}

func NewServer(
	cfg *config.HTTPCfg,
	orders order.Service,
	reports report.Service,
	prices price.Service,
	programs dyeing.Service,
	documents docstore.Service,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		e:         e,
		cfg:       cfg,
		orders:    orders,
		reports:   reports,
		prices:    prices,
		programs:  programs,
		documents: documents,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/health", func(c echo.Context) error {
		return c.NoContent(200)
	})

	s.e.POST("/orders", s.createOrder)
	s.e.GET("/orders", s.listOrders)
	s.e.GET("/orders/:id", s.getOrder)
	s.e.DELETE("/orders/:id", s.deleteOrder)
	s.e.POST("/orders/:id/cancel", s.cancelOrder)
	s.e.POST("/orders/:id/restore", s.restoreOrder)
	s.e.POST("/orders/:id/documents/order-form", s.orderFormDocument)
	s.e.POST("/orders/:id/documents/challan", s.challanDocument)

	s.e.PUT("/entries/:id/shades", s.updateShades)
	s.e.POST("/entries/:id/stage", s.stageEntry)
	s.e.POST("/entries/:id/unstage", s.unstageEntry)
	s.e.POST("/entries/:id/undispatch", s.unDispatchEntry)
	s.e.POST("/entries/:id/split", s.splitPart)
	s.e.POST("/entries/:id/cancel", s.cancelEntry)
	s.e.DELETE("/entries/:id", s.deleteEntry)
	s.e.POST("/entries/dispatch", s.dispatchEntries)
	s.e.POST("/batches/combine", s.combineBatches)

	s.e.GET("/reports/designs", s.designCounts)
	s.e.GET("/reports/parties", s.partyCounts)
	s.e.GET("/reports/bhiwandi", s.bhiwandiList)
	s.e.GET("/reports/dispatch", s.dispatchList)
	s.e.POST("/reports/program", s.buildProgram)
	s.e.POST("/reports/dispatch-list.xlsx", s.dispatchListSheet)
	s.e.GET("/parties/:id/entries", s.partyEntries)
	s.e.GET("/parties/:id/price-suggestion", s.priceSuggestion)

	s.e.POST("/dyeing", s.createDyeingProgram)
	s.e.GET("/dyeing", s.listDyeingPrograms)
	s.e.GET("/dyeing/:id", s.getDyeingProgram)
	s.e.POST("/dyeing/:id/receipts", s.addDyeingReceipt)
	s.e.POST("/dyeing/:id/complete", s.completeDyeingProgram)
}

func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.cfg.Addr)
	return s.e.Start(s.cfg.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
