package models

import (
	"time"
)

// CV is a stored résumé. Content always holds plain text; FilePath is set when
// the text was extracted from an uploaded PDF.
type CV struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	FilePath  string    `gorm:"type:text" json:"file_path,omitempty"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CV) TableName() string {
	return "cvs"
}

type Job struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"type:text;not null" json:"title"`
	Company      string    `gorm:"type:text" json:"company,omitempty"`
	Location     string    `gorm:"type:text" json:"location,omitempty"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Requirements string    `gorm:"type:text" json:"requirements,omitempty"`
	SalaryRange  string    `gorm:"type:text" json:"salary_range,omitempty"`
	JobURL       string    `gorm:"type:text" json:"job_url,omitempty"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Job) TableName() string {
	return "jobs"
}
