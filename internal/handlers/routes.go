package handlers

import "github.com/gofiber/fiber/v2"

type Set struct {
	Documents       *DocumentHandler
	Analysis        *AnalysisHandler
	Insights        *InsightHandler
	LinkedIn        *LinkedInHandler
	AnalysisEnabled bool
}

// Register mounts every endpoint on router, normally the /api/v1 group.
func Register(router fiber.Router, set Set) {
	router.Get("/health", HealthHandler(set.AnalysisEnabled))

	router.Post("/cvs", set.Documents.HandleCreateCV)
	router.Post("/cvs/upload", set.Documents.HandleUploadCV)
	router.Get("/cvs", set.Documents.HandleListCVs)
	router.Get("/cvs/:id", set.Documents.HandleGetCV)
	router.Post("/jobs", set.Documents.HandleCreateJob)
	router.Get("/jobs", set.Documents.HandleListJobs)
	router.Get("/jobs/:id", set.Documents.HandleGetJob)

	router.Post("/analyze-cv", set.Analysis.HandleAnalyze)
	router.Get("/analyses", set.Analysis.HandleListAnalyses)
	router.Get("/analyses/:id", set.Analysis.HandleGetAnalysis)

	router.Post("/extract-skills", set.Insights.HandleExtractSkills)
	router.Post("/suggest-keywords", set.Insights.HandleSuggestKeywords)
	router.Post("/tailor-cv", set.Insights.HandleTailorCV)

	router.Post("/linkedin/generate-cv", set.LinkedIn.HandleGenerateCV)
}
