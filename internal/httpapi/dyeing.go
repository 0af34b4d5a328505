package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"textile-trade-tracker/pkg"
)

func (s *Server) createDyeingProgram(c echo.Context) error {
	var req struct {
		DesignCode string `json:"design_code"`
		Colour     string `json:"colour"`
		TotalTakas int    `json:"total_takas"`
		Remark     string `json:"remark"`
	}
	if err := c.Bind(&req); err != nil {
		return writeErr(c, pkg.ErrValidation{Cause: "malformed dyeing program payload"})
	}

	program, err := s.programs.Create(c.Request().Context(), req.DesignCode, req.Colour, req.TotalTakas, req.Remark)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, program)
}

func (s *Server) listDyeingPrograms(c echo.Context) error {
	includeCompleted := c.QueryParam("include_completed") == "true"
	programs, err := s.programs.List(c.Request().Context(), includeCompleted)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, programs)
}

func (s *Server) getDyeingProgram(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	resp, err := s.programs.Get(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) addDyeingReceipt(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req struct {
		Takas int `json:"takas"`
	}
	if err := c.Bind(&req); err != nil {
		return writeErr(c, pkg.ErrValidation{Cause: "malformed receipt payload"})
	}

	resp, err := s.programs.AddReceipt(c.Request().Context(), id, req.Takas)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) completeDyeingProgram(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeErr(c, err)
	}
	if err := s.programs.Complete(c.Request().Context(), id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
