package server

import (
	"bytes"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spektr-org/prodistat/engine"
	"github.com/spektr-org/prodistat/export"
)

type filterRequest struct {
	Value string `json:"value"`
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"session": s.session.ID(),
		"time":    s.now(),
	})
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	result, err := s.session.Summary()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"result": result,
		"table":  engine.Table(result, engine.WithLocale(s.session.Locale())),
	})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	stats, err := s.session.Stats()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"stats":       stats,
		"description": stats.Describe(s.session.Locale()),
	})
}

func (s *Server) handleCharts(c *fiber.Ctx) error {
	charts, err := s.session.Charts()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"charts": charts,
	})
}

func (s *Server) filterState(c *fiber.Ctx) error {
	criteria := s.session.Criteria()
	return c.JSON(fiber.Map{
		"variant":    s.session.Variant(),
		"dimensions": s.session.Variant().FilterDimensions(),
		"criteria":   criteria,
		"filtered":   !criteria.IsEmpty(),
		"query":      s.session.Query(),
	})
}

func (s *Server) handleGetFilters(c *fiber.Ctx) error {
	return s.filterState(c)
}

func (s *Server) handleSetFilter(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	dim := engine.Dimension(c.Params("dimension"))
	if err := s.session.SetFilter(dim, req.Value); err != nil {
		return err
	}
	return s.filterState(c)
}

func (s *Server) handleResetFilters(c *fiber.Ctx) error {
	s.session.ResetFilters()
	return s.filterState(c)
}

func (s *Server) handleSetSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	s.session.SetSearch(req.Query)
	return s.filterState(c)
}

func (s *Server) handleOptions(c *fiber.Ctx) error {
	dim := engine.Dimension(c.Params("dimension"))
	options, err := s.session.Options(dim)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"dimension": dim,
		"label":     engine.LabelForDimension(s.session.Locale(), dim),
		"options":   options,
	})
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil || format == export.Table {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be one of csv, tsv, xlsx, json, yaml",
		})
	}

	var buf bytes.Buffer
	if err := s.session.Export(&buf, format); err != nil {
		return err
	}

	filename := export.DefaultFilename(s.now(), format)
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	return c.Send(buf.Bytes())
}
