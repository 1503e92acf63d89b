package local

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// Converter extracts text in-process: real pages for PDFs, a single page
// for office/plaintext formats. It is the fallback when no external
// conversion service is configured.
type Converter struct {
	logger *logger_i.Logger
}

func NewConverter() *Converter {
	return &Converter{logger: logger_i.NewLogger("LocalConverter")}
}

func (c *Converter) Convert(ctx context.Context, path string) ([]commonModels.RawPage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return c.extractPDF(path)
	case ".docx", ".odt", ".rtf", ".txt", ".md":
		return c.extractOffice(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func (c *Converter) extractPDF(path string) ([]commonModels.RawPage, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []commonModels.RawPage
	numPages := f.NumPage()
	c.logger.Debug("Extracting PDF", "path", path, "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// keep going - a single broken page should not sink the document
			c.logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}

		pages = append(pages, commonModels.RawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// extractOffice reads a .odt, .docx, .rtf or plaintext file. These formats
// carry no page boundaries, so everything lands on page 1.
func (c *Converter) extractOffice(path string) ([]commonModels.RawPage, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}
	return []commonModels.RawPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

// protectExtract guards against the pdf library hanging on malformed
// content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("page extraction timeout")
	}
}
