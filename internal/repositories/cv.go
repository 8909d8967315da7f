package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/cv-tailor/internal/models"
)

type CVRepository interface {
	Create(cv *models.CV) error
	FindByID(id uint) (*models.CV, error)
	FindAll() ([]models.CV, error)
}

type cvRepository struct {
	db *gorm.DB
}

func NewCVRepository(db *gorm.DB) CVRepository {
	return &cvRepository{db: db}
}

// Create implements CVRepository. A primary CV clears the flag on all others.
func (r *cvRepository) Create(cv *models.CV) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if cv.IsPrimary {
			if err := tx.Model(&models.CV{}).
				Where("is_primary = ?", true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(cv).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create cv: %w", err)
	}

	return nil
}

// FindByID implements CVRepository.
func (r *cvRepository) FindByID(id uint) (*models.CV, error) {
	var cv models.CV
	if err := r.db.Where("id = ?", id).First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cv %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to find cv: %w", err)
	}

	return &cv, nil
}

// FindAll implements CVRepository.
func (r *cvRepository) FindAll() ([]models.CV, error) {
	var cvs []models.CV
	if err := r.db.Order("created_at DESC").Find(&cvs).Error; err != nil {
		return nil, fmt.Errorf("failed to list cvs: %w", err)
	}

	return cvs, nil
}
