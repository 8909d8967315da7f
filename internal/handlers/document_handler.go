package handlers

import (
	"errors"
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

// DocumentHandler manages the CVs and job descriptions analyses run against.
type DocumentHandler struct {
	cvRepo    repositories.CVRepository
	jobRepo   repositories.JobRepository
	uploads   services.UploadStore
	extractor services.DocumentExtractor
	archive   services.DocumentArchive
	logger    *zap.Logger
}

func NewDocumentHandler(
	cvRepo repositories.CVRepository,
	jobRepo repositories.JobRepository,
	uploads services.UploadStore,
	extractor services.DocumentExtractor,
	archive services.DocumentArchive,
	log *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		cvRepo:    cvRepo,
		jobRepo:   jobRepo,
		uploads:   uploads,
		extractor: extractor,
		archive:   archive,
		logger:    logger.OrNop(log).Named("documents"),
	}
}

func (h *DocumentHandler) HandleCreateCV(c *fiber.Ctx) error {
	var req models.CreateCVRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, invalidInput("invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Content) == "" {
		return writeError(c, invalidInput("name and content are required"))
	}

	cv := models.CV{
		Name:      req.Name,
		Content:   req.Content,
		IsPrimary: req.IsPrimary,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.cvRepo.Create(&cv); err != nil {
		return writeError(c, fmt.Errorf("%w: %w", services.ErrPersistenceFailed, err))
	}

	return c.Status(fiber.StatusCreated).JSON(cv)
}

// HandleUploadCV stores a PDF from the "cv" form field and saves its text as
// a new CV.
func (h *DocumentHandler) HandleUploadCV(c *fiber.Ctx) error {
	file, err := c.FormFile("cv")
	if err != nil {
		return writeError(c, invalidInput("a PDF file is required in the 'cv' field"))
	}

	src, err := file.Open()
	if err != nil {
		return writeError(c, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	stored, err := h.uploads.Save(file.Filename, file.Size, src)
	if err != nil {
		return writeError(c, err)
	}

	doc, err := h.extractor.ExtractText(stored.Path)
	if err != nil {
		h.cleanup(stored.Filename)
		return writeError(c, err)
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(file.Filename, ".pdf")
	}

	cv := models.CV{
		Name:      name,
		Content:   doc.Text,
		FilePath:  stored.Path,
		IsPrimary: c.FormValue("is_primary") == "true",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.cvRepo.Create(&cv); err != nil {
		h.cleanup(stored.Filename)
		return writeError(c, fmt.Errorf("%w: %w", services.ErrPersistenceFailed, err))
	}

	h.logger.Info("cv uploaded", zap.Uint("cv_id", cv.ID), zap.Int("pages", doc.PageCount))

	resp := models.UploadResponse{
		ID:           cv.ID,
		Name:         cv.Name,
		Filename:     stored.Filename,
		OriginalName: stored.OriginalName,
		PageCount:    doc.PageCount,
	}

	// The CV is already stored; a failed archive copy is only logged.
	if h.archive != nil {
		uri, err := h.archive.ArchiveDocument(c.UserContext(), fmt.Sprintf("cv-%d", cv.ID), stored.Path, doc.Text)
		if err != nil {
			h.logger.Warn("failed to archive upload", zap.Uint("cv_id", cv.ID), zap.Error(err))
		} else {
			resp.ArchiveURI = uri
		}
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *DocumentHandler) cleanup(filename string) {
	if err := h.uploads.Delete(filename); err != nil {
		h.logger.Warn("failed to remove upload", zap.String("filename", filename), zap.Error(err))
	}
}

func (h *DocumentHandler) HandleListCVs(c *fiber.Ctx) error {
	cvs, err := h.cvRepo.FindAll()
	if err != nil {
		return writeError(c, err)
	}
	if cvs == nil {
		cvs = []models.CV{}
	}
	return c.JSON(cvs)
}

func (h *DocumentHandler) HandleGetCV(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	cv, err := h.cvRepo.FindByID(id)
	if err != nil {
		return writeError(c, notFound(err, "cv", id))
	}
	return c.JSON(cv)
}

func (h *DocumentHandler) HandleCreateJob(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, invalidInput("invalid request body"))
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Description) == "" {
		return writeError(c, invalidInput("title and description are required"))
	}

	job := models.Job{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		SalaryRange:  req.SalaryRange,
		JobURL:       req.JobURL,
		CreatedAt:    time.Now(),
	}
	if err := h.jobRepo.Create(&job); err != nil {
		return writeError(c, fmt.Errorf("%w: %w", services.ErrPersistenceFailed, err))
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *DocumentHandler) HandleListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.FindAll()
	if err != nil {
		return writeError(c, err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return c.JSON(jobs)
}

func (h *DocumentHandler) HandleGetJob(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	job, err := h.jobRepo.FindByID(id)
	if err != nil {
		return writeError(c, notFound(err, "job", id))
	}
	return c.JSON(job)
}

// notFound turns a repository miss into services.ErrNotFound.
func notFound(err error, kind string, id uint) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", services.ErrNotFound, kind, id)
	}
	return err
}
