package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/cv-tailor/internal/models"
)

// AnalysisRepository stores analysis records. There is no update
// or delete: every analysis is a new row.
type AnalysisRepository interface {
	Create(analysis *models.CVAnalysis) error
	FindByID(id uint) (*models.CVAnalysis, error)
	FindByPair(filter AnalysisFilter, limit int) ([]models.CVAnalysis, error)
}

// AnalysisFilter narrows FindByPair. Zero fields are ignored.
type AnalysisFilter struct {
	CVID  uint
	JobID uint
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.CVAnalysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(id uint) (*models.CVAnalysis, error) {
	var analysis models.CVAnalysis
	if err := r.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("analysis %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

// FindByPair returns the newest analyses first.
func (r *analysisRepository) FindByPair(filter AnalysisFilter, limit int) ([]models.CVAnalysis, error) {
	query := r.db.Model(&models.CVAnalysis{})
	if filter.CVID != 0 {
		query = query.Where("cv_id = ?", filter.CVID)
	}
	if filter.JobID != 0 {
		query = query.Where("job_id = ?", filter.JobID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var analyses []models.CVAnalysis
	if err := query.Order("created_at DESC, id DESC").Find(&analyses).Error; err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, nil
}
