package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/logger"
	"alfredoptarigan/cv-tailor/internal/models"
	"alfredoptarigan/cv-tailor/internal/repositories"
	"alfredoptarigan/cv-tailor/internal/services"
)

const defaultGeneratedCVName = "LinkedIn CV"

// ProfileSourceFactory builds a profile source for one caller's access token.
type ProfileSourceFactory func(token string) services.ProfileSource

type LinkedInHandler struct {
	synthesizer services.SynthesizerService
	newSource   ProfileSourceFactory
	cvRepo      repositories.CVRepository
	logger      *zap.Logger
}

func NewLinkedInHandler(
	synthesizer services.SynthesizerService,
	newSource ProfileSourceFactory,
	cvRepo repositories.CVRepository,
	log *zap.Logger,
) *LinkedInHandler {
	return &LinkedInHandler{
		synthesizer: synthesizer,
		newSource:   newSource,
		cvRepo:      cvRepo,
		logger:      logger.OrNop(log).Named("linkedin"),
	}
}

// HandleGenerateCV renders a CV from the caller's profile. With ?save=true the
// text is also stored as a new CV.
func (h *LinkedInHandler) HandleGenerateCV(c *fiber.Ctx) error {
	source := h.newSource(accessToken(c))

	content, err := h.synthesizer.Synthesize(c.UserContext(), source)
	if err != nil {
		return writeError(c, err)
	}

	resp := models.ContentResponse{Content: content}

	if c.QueryBool("save") {
		name := strings.TrimSpace(c.Query("name"))
		if name == "" {
			name = defaultGeneratedCVName
		}

		cv := models.CV{
			Name:      name,
			Content:   content,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := h.cvRepo.Create(&cv); err != nil {
			return writeError(c, fmt.Errorf("%w: %w", services.ErrPersistenceFailed, err))
		}

		h.logger.Info("generated cv saved", zap.Uint("cv_id", cv.ID))
		resp.CVID = &cv.ID
	}

	return c.JSON(resp)
}

func accessToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.Get("X-LinkedIn-Token"))
}
