package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/config"
	"alfredoptarigan/cv-tailor/internal/models"
	"alfredoptarigan/cv-tailor/internal/repositories"
	"alfredoptarigan/cv-tailor/internal/services"
)

var (
	seedDir     string
	seedCompany string
)

// seedJobsCmd imports every job description PDF in a directory into the jobs
// table. The file name, minus extension, becomes the job title.
var seedJobsCmd = &cobra.Command{
	Use:   "seed-jobs",
	Short: "Import job description PDFs from a directory",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			log.Error("failed to initialize database", zap.Error(err))
			return err
		}

		paths, err := filepath.Glob(filepath.Join(seedDir, "*.pdf"))
		if err != nil {
			return fmt.Errorf("invalid directory pattern: %w", err)
		}
		if len(paths) == 0 {
			log.Warn("no PDF files found", zap.String("dir", seedDir))
			return nil
		}

		imported, failed := seedJobs(paths, services.NewPDFExtractor(log), repositories.NewJobRepository(db), seedCompany, log)
		log.Info("seeding finished", zap.Int("imported", imported), zap.Int("failed", failed))

		if failed > 0 {
			return fmt.Errorf("%d of %d job files failed to import", failed, len(paths))
		}
		return nil
	},
}

func init() {
	seedJobsCmd.Flags().StringVar(&seedDir, "dir", "./reference_docs/jobs", "directory with job description PDFs")
	seedJobsCmd.Flags().StringVar(&seedCompany, "company", "", "company to set on every imported job")
}

// seedJobs keeps going after a failed file and reports both counts.
func seedJobs(
	paths []string,
	extractor services.DocumentExtractor,
	jobRepo repositories.JobRepository,
	company string,
	log *zap.Logger,
) (imported, failed int) {
	for _, path := range paths {
		fileLog := log.With(zap.String("path", path))

		doc, err := extractor.ExtractText(path)
		if err != nil {
			fileLog.Error("failed to extract text", zap.Error(err))
			failed++
			continue
		}

		job := models.Job{
			Title:       titleFromFilename(path),
			Company:     company,
			Description: doc.Text,
			CreatedAt:   time.Now(),
		}
		if err := jobRepo.Create(&job); err != nil {
			fileLog.Error("failed to save job", zap.Error(err))
			failed++
			continue
		}

		fileLog.Info("job imported",
			zap.Uint("job_id", job.ID),
			zap.Int("pages", doc.PageCount),
			zap.Int("characters", len(doc.Text)),
		)
		imported++
	}

	return imported, failed
}

func titleFromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}
