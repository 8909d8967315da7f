package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecoveryTier records how the typed fields of an analysis were obtained from
// the model reply.
type RecoveryTier string

const (
	TierParsed    RecoveryTier = "parsed"
	TierHeuristic RecoveryTier = "heuristic"
	TierDefault   RecoveryTier = "default"
)

// CVAnalysis is one compatibility report for a (CV, Job) pair. Rows are
// insert-only; re-analysing a pair adds a new row.
type CVAnalysis struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	ReferenceID     uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"reference_id"`
	CVID            uint              `gorm:"not null;index:idx_cv_analyses_pair" json:"cv_id"`
	JobID           uint              `gorm:"not null;index:idx_cv_analyses_pair" json:"job_id"`
	MatchScore      int               `json:"match_score"`
	Strengths       datatypes.JSON    `gorm:"type:jsonb" json:"strengths"`
	Improvements    datatypes.JSON    `gorm:"type:jsonb" json:"improvements"`
	Recommendations datatypes.JSON    `gorm:"type:jsonb" json:"recommendations"`
	SkillsGap       datatypes.JSON    `gorm:"type:jsonb" json:"skills_gap"`
	AnalysisData    datatypes.JSONMap `gorm:"type:jsonb" json:"analysis_data"`
	RecoveryTier    RecoveryTier      `gorm:"type:text;not null" json:"recovery_tier"`
	Model           string            `gorm:"type:text" json:"model"`
	CreatedAt       time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	CV  CV  `gorm:"foreignKey:CVID" json:"-"`
	Job Job `gorm:"foreignKey:JobID" json:"-"`
}

func (CVAnalysis) TableName() string {
	return "cv_analyses"
}

// EncodeStringList stores a list as a JSON array. A nil list is stored as [].
func EncodeStringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// DecodeStringList reads a JSON array column. It never returns nil.
func DecodeStringList(raw datatypes.JSON) []string {
	items := []string{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return []string{}
	}
	return items
}
