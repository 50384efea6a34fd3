package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// ExtractionResult is the payload returned by the PDF extraction service.
type ExtractionResult struct {
	LineItems []ExtractedLineItem `json:"lineItems"`
}

// ExtractionClient talks to the external PDF extraction service. The
// service receives an uploaded document and returns the line items it
// could read out of it. Extraction failures are terminal for the upload;
// the user falls back to manual entry, there is no retry loop.
type ExtractionClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewExtractionClient builds a client from the EXTRACTION_SERVICE_URL
// environment variable. An empty URL yields a client whose calls fail
// with a configuration error, which handlers surface to the user.
func NewExtractionClient() *ExtractionClient {
	return &ExtractionClient{
		BaseURL: os.Getenv("EXTRACTION_SERVICE_URL"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Extract uploads a PDF to the extraction service and returns the
// extracted line items.
func (c *ExtractionClient) Extract(ctx context.Context, fileName string, file io.Reader) (*ExtractionResult, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("extraction service not configured (EXTRACTION_SERVICE_URL is empty)")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/extract", &body)
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}

	var result ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return &result, nil
}
