package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/logger"
	"alfredoptarigan/cv-tailor/internal/models"
	"alfredoptarigan/cv-tailor/internal/repositories"
	"alfredoptarigan/cv-tailor/internal/services"
)

const maxHistory = 50

type AnalysisHandler struct {
	analyzer     services.AnalyzerService
	analysisRepo repositories.AnalysisRepository
	logger       *zap.Logger
}

// NewAnalysisHandler accepts a nil analyzer; analysis requests then answer 503
// while history stays readable.
func NewAnalysisHandler(
	analyzer services.AnalyzerService,
	analysisRepo repositories.AnalysisRepository,
	log *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:     analyzer,
		analysisRepo: analysisRepo,
		logger:       logger.OrNop(log).Named("analysis"),
	}
}

func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
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

	analysis, err := h.analyzer.Analyze(c.UserContext(), req.CVID, req.JobID)
	if err != nil {
		h.logger.Warn("analyze request failed", zap.String("request_id", requestID(c)), zap.Error(err))
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.NewAnalysisResponse(analysis))
}

func (h *AnalysisHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	analysis, err := h.analysisRepo.FindByID(id)
	if err != nil {
		return writeError(c, notFound(err, "analysis", id))
	}

	return c.JSON(models.NewAnalysisResponse(analysis))
}

// HandleListAnalyses returns analyses newest first, optionally narrowed by
// cv_id and job_id.
func (h *AnalysisHandler) HandleListAnalyses(c *fiber.Ctx) error {
	var filter repositories.AnalysisFilter

	for name, dst := range map[string]*uint{"cv_id": &filter.CVID, "job_id": &filter.JobID} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return writeError(c, invalidInput("invalid %s", name))
		}
		*dst = uint(v)
	}

	analyses, err := h.analysisRepo.FindByPair(filter, maxHistory)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]models.AnalysisResponse, 0, len(analyses))
	for i := range analyses {
		out = append(out, models.NewAnalysisResponse(&analyses[i]))
	}

	return c.JSON(out)
}
