package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"alfredoptarigan/cv-tailor/internal/logger"
)

// DocumentExtractor turns an uploaded CV or job PDF into plain text.
type DocumentExtractor interface {
	ExtractText(filePath string) (*ExtractedDocument, error)
}

type ExtractedDocument struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfExtractor struct {
	logger *zap.Logger
}

func NewPDFExtractor(log *zap.Logger) DocumentExtractor {
	return &pdfExtractor{logger: logger.OrNop(log).Named("pdf")}
}

func (p *pdfExtractor) ExtractText(filePath string) (*ExtractedDocument, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %w", ErrInvalidInput, err)
	}
	defer f.Close()

	var sb strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("skipping unreadable page", zap.Int("page", pageIndex), zap.Error(err))
			continue
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := CleanText(sb.String())
	if text == "" {
		return nil, fmt.Errorf("%w: no text content found in PDF", ErrInvalidInput)
	}

	return &ExtractedDocument{
		Text:      text,
		PageCount: totalPage,
		FilePath:  filePath,
	}, nil
}

// CleanText trims every line and drops the empty ones.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
