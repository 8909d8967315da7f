package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-tailor/internal/models"
	"alfredoptarigan/cv-tailor/internal/services"
)

type InsightHandler struct {
	analyzer services.AnalyzerService
}

func NewInsightHandler(analyzer services.AnalyzerService) *InsightHandler {
	return &InsightHandler{analyzer: analyzer}
}

func (h *InsightHandler) HandleExtractSkills(c *fiber.Ctx) error {
	return h.handleList(c, func(ctx context.Context, cvID uint) ([]string, error) {
		return h.analyzer.ExtractSkills(ctx, cvID)
	})
}

func (h *InsightHandler) HandleSuggestKeywords(c *fiber.Ctx) error {
	return h.handleList(c, func(ctx context.Context, cvID uint) ([]string, error) {
		return h.analyzer.SuggestKeywords(ctx, cvID)
	})
}

func (h *InsightHandler) handleList(c *fiber.Ctx, run func(ctx context.Context, cvID uint) ([]string, error)) error {
	if h.analyzer == nil {
		return writeError(c, services.ErrServiceUnconfigured)
	}

	var req models.CVRequest
	if err := c.BodyParser(&req); err != nil || req.CVID == 0 {
		return writeError(c, invalidInput("cv_id is required"))
	}

	items, err := run(c.UserContext(), req.CVID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.ListResponse{Items: items})
}

func (h *InsightHandler) HandleTailorCV(c *fiber.Ctx) error {
	if h.analyzer == nil {
		return writeError(c, services.ErrServiceUnconfigured)
	}

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, invalidInput("invalid request body"))
	}
	if req.CVID == 0 || req.JobID == 0 {
		return writeError(c, invalidInput("cv_id and job_id are required"))
	}

	content, err := h.analyzer.TailorCV(c.UserContext(), req.CVID, req.JobID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.ContentResponse{Content: content})
}
