package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/services"
)

var (
	analyzeCVPath  string
	analyzeJobPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a local CV against a local job description and print the report as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		extractor := services.NewPDFExtractor(log)

		cvText, err := readDocument(extractor, analyzeCVPath)
		if err != nil {
			return err
		}
		jobText, err := readDocument(extractor, analyzeJobPath)
		if err != nil {
			return err
		}

		analyzer, err := newAnalyzer(cmd.Context(), cfg, log, nil, nil, nil)
		if err != nil {
			return fmt.Errorf("analysis unavailable: %w", err)
		}

		result, err := analyzer.Evaluate(cmd.Context(), cvText, jobText)
		if err != nil {
			log.Error("analysis failed", zap.Error(err))
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCVPath, "cv", "", "path to the CV (.pdf or plain text)")
	analyzeCmd.Flags().StringVar(&analyzeJobPath, "job", "", "path to the job description (.pdf or plain text)")
	_ = analyzeCmd.MarkFlagRequired("cv")
	_ = analyzeCmd.MarkFlagRequired("job")
}

// readDocument extracts PDF text, or reads any other file as plain text.
func readDocument(extractor services.DocumentExtractor, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		doc, err := extractor.ExtractText(path)
		if err != nil {
			return "", err
		}
		return doc.Text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s is empty", path)
	}
	return text, nil
}
