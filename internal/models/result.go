package models

import "time"

type CreateCVRequest struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateJobRequest struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	SalaryRange  string `json:"salary_range"`
	JobURL       string `json:"job_url"`
}

type AnalyzeRequest struct {
	CVID  uint `json:"cv_id"`
	JobID uint `json:"job_id"`
}

type CVRequest struct {
	CVID uint `json:"cv_id"`
}

// AnalysisResponse is the API shape of a CVAnalysis. The lists are always
// arrays, never null.
type AnalysisResponse struct {
	ID              uint           `json:"id"`
	ReferenceID     string         `json:"reference_id"`
	CVID            uint           `json:"cv_id"`
	JobID           uint           `json:"job_id"`
	MatchScore      int            `json:"match_score"`
	Strengths       []string       `json:"strengths"`
	Improvements    []string       `json:"improvements"`
	Recommendations []string       `json:"recommendations"`
	SkillsGap       []string       `json:"skills_gap"`
	AnalysisData    map[string]any `json:"analysis_data"`
	RecoveryTier    string         `json:"recovery_tier"`
	CreatedAt       time.Time      `json:"created_at"`
}

func NewAnalysisResponse(a *CVAnalysis) AnalysisResponse {
	data := map[string]any(a.AnalysisData)
	if data == nil {
		data = map[string]any{}
	}

	return AnalysisResponse{
		ID:              a.ID,
		ReferenceID:     a.ReferenceID.String(),
		CVID:            a.CVID,
		JobID:           a.JobID,
		MatchScore:      a.MatchScore,
		Strengths:       DecodeStringList(a.Strengths),
		Improvements:    DecodeStringList(a.Improvements),
		Recommendations: DecodeStringList(a.Recommendations),
		SkillsGap:       DecodeStringList(a.SkillsGap),
		AnalysisData:    data,
		RecoveryTier:    string(a.RecoveryTier),
		CreatedAt:       a.CreatedAt,
	}
}

type ListResponse struct {
	Items []string `json:"items"`
}

type ContentResponse struct {
	Content string `json:"content"`
	CVID    *uint  `json:"cv_id,omitempty"`
}

type UploadResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	PageCount    int    `json:"page_count"`
	ArchiveURI   string `json:"archive_uri,omitempty"`
}
