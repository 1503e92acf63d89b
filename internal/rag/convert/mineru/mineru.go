package mineru

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/customHttpClient"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// Converter sends documents to the MinerU extraction service and turns the
// returned markdown into raw pages. The service produces one markdown file
// per document, so pages here are synthetic: the markdown is split on
// top-level headings and each section becomes one page.
type Converter struct {
	client  *http.Client
	token   string
	taskURL string
	logger  *logger_i.Logger
}

func NewConverter() *Converter {
	return &Converter{
		client:  customHttpClient.Pooled,
		token:   config.MineruToken,
		taskURL: config.MineruTaskURL,
		logger:  logger_i.NewLogger("MineruConverter"),
	}
}

type taskResponse struct {
	Code int `json:"code"`
	Data struct {
		TaskID string `json:"task_id"`
	} `json:"data"`
	Msg string `json:"msg"`
}

type taskStatusResponse struct {
	Code int `json:"code"`
	Data struct {
		State      string `json:"state"`
		FullZipURL string `json:"full_zip_url"`
		ErrMsg     string `json:"err_msg"`
	} `json:"data"`
}

func (c *Converter) Convert(ctx context.Context, path string) ([]commonModels.RawPage, error) {
	fileURL, err := c.uploadSource(ctx, path)
	if err != nil {
		return nil, err
	}

	taskID, err := c.submitTask(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Conversion task submitted", "taskId", taskID, "file", filepath.Base(path))

	zipURL, err := c.waitForTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	markdown, err := c.fetchMarkdown(ctx, zipURL)
	if err != nil {
		return nil, err
	}
	return splitMarkdownIntoPages(markdown), nil
}

// uploadSource PUTs the file to the configured object storage endpoint and
// returns the URL the extraction service will fetch it from.
func (c *Converter) uploadSource(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading source file: %w", err)
	}

	uploadURL := strings.TrimSuffix(config.MineruUploadBaseURL, "/") + "/" + filepath.Base(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading source file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload returned status %d", resp.StatusCode)
	}
	return uploadURL, nil
}

func (c *Converter) submitTask(ctx context.Context, fileURL string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"url":    fileURL,
		"is_ocr": true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.taskURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting conversion task: %w", err)
	}
	defer resp.Body.Close()

	var parsed taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding task response: %w", err)
	}
	if parsed.Code != 0 || parsed.Data.TaskID == "" {
		return "", fmt.Errorf("conversion task rejected: %s", parsed.Msg)
	}
	return parsed.Data.TaskID, nil
}

func (c *Converter) waitForTask(ctx context.Context, taskID string) (string, error) {
	deadline := time.After(config.MineruPollTimeout)
	ticker := time.NewTicker(config.MineruPollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline:
			return "", fmt.Errorf("conversion task %s timed out", taskID)
		case <-ticker.C:
			status, err := c.taskStatus(ctx, taskID)
			if err != nil {
				c.logger.Warn("Polling conversion task failed", "taskId", taskID, "error", err)
				continue
			}
			switch status.Data.State {
			case "done":
				return status.Data.FullZipURL, nil
			case "failed":
				return "", fmt.Errorf("conversion task %s failed: %s", taskID, status.Data.ErrMsg)
			}
		}
	}
}

func (c *Converter) taskStatus(ctx context.Context, taskID string) (*taskStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.taskURL+"/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed taskStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// fetchMarkdown downloads the result archive and pulls out full.md.
func (c *Converter) fetchMarkdown(ctx context.Context, zipURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, zipURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading result archive: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening result archive: %w", err)
	}
	for _, f := range archive.File {
		if filepath.Base(f.Name) != "full.md" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		markdown, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(markdown), nil
	}
	return "", fmt.Errorf("result archive holds no full.md")
}

// splitMarkdownIntoPages assigns synthetic page numbers by splitting on
// top-level headings. A document with no headings becomes a single page.
func splitMarkdownIntoPages(markdown string) []commonModels.RawPage {
	lines := strings.Split(markdown, "\n")
	var sections []string
	var current strings.Builder

	for _, line := range lines {
		if strings.HasPrefix(line, "# ") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if strings.TrimSpace(current.String()) != "" {
		sections = append(sections, current.String())
	}

	pages := make([]commonModels.RawPage, 0, len(sections))
	for i, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		pages = append(pages, commonModels.RawPage{
			Number:  i + 1,
			Content: section,
		})
	}
	return pages
}
