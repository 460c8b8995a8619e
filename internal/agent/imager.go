package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"contentpipe/pkg/models"
)

// ImageAgent sources an image for a brief, either by calling an AI
// generation endpoint with a prompt or by searching a stock-photo catalog.
// With no endpoints configured it returns deterministic placeholder URLs,
// which is what test mode uses.
//
// The two paths intentionally return differently shaped results (nested vs
// flat), matching what the respective services produce; the orchestrator's
// propagation handles both.
type ImageAgent struct {
	httpClient *http.Client

	// GenerateEndpoint accepts POST {"prompt": ...} and returns {"url": ...}.
	GenerateEndpoint string
	// StockEndpoint accepts GET ?query=...&per_page=1 and returns a
	// Pexels-style photo list.
	StockEndpoint string
	// StockAPIKey is sent as the Authorization header on stock searches.
	StockAPIKey string
}

// NewImageAgent creates an image worker. Empty endpoints enable offline mode.
func NewImageAgent(generateEndpoint, stockEndpoint, stockAPIKey string) *ImageAgent {
	return &ImageAgent{
		httpClient:       &http.Client{Timeout: 60 * time.Second},
		GenerateEndpoint: generateEndpoint,
		StockEndpoint:    stockEndpoint,
		StockAPIKey:      stockAPIKey,
	}
}

// ExecuteTask obtains an image URL via the source selected in the task
// context.
func (a *ImageAgent) ExecuteTask(ctx context.Context, task *models.Task) (map[string]any, error) {
	source := models.ImageSource(task.StringContext(models.CtxImageSource))
	switch source {
	case models.ImageSourceStock:
		return a.searchStock(ctx, task)
	case models.ImageSourceAI, "":
		return a.generate(ctx, task)
	default:
		return nil, fmt.Errorf("unknown image source %q", source)
	}
}

// generate calls the AI generation endpoint with the task's prompt.
func (a *ImageAgent) generate(ctx context.Context, task *models.Task) (map[string]any, error) {
	prompt := task.StringContext(models.CtxImagePrompt)
	if prompt == "" {
		return nil, fmt.Errorf("image task %s carries no prompt", task.ID)
	}

	if a.GenerateEndpoint == "" {
		return nestedImageResult(placeholderURL(task), prompt), nil
	}

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.GenerateEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call generation endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation endpoint returned %s", resp.Status)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}
	if out.URL == "" {
		return nil, fmt.Errorf("generation endpoint returned no url")
	}

	return nestedImageResult(out.URL, prompt), nil
}

// searchStock queries the stock catalog for the task's search query and
// takes the first hit.
func (a *ImageAgent) searchStock(ctx context.Context, task *models.Task) (map[string]any, error) {
	query := task.StringContext(models.CtxImageQuery)
	if query == "" {
		return nil, fmt.Errorf("image task %s carries no search query", task.ID)
	}

	if a.StockEndpoint == "" {
		return map[string]any{"image_url": placeholderURL(task), "query": query}, nil
	}

	reqURL := fmt.Sprintf("%s?query=%s&per_page=1", a.StockEndpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build stock request: %w", err)
	}
	if a.StockAPIKey != "" {
		req.Header.Set("Authorization", a.StockAPIKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call stock endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock endpoint returned %s", resp.Status)
	}

	var out struct {
		Photos []struct {
			Src struct {
				Large string `json:"large"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode stock response: %w", err)
	}
	if len(out.Photos) == 0 || out.Photos[0].Src.Large == "" {
		return nil, fmt.Errorf("no stock photo found for %q", query)
	}

	return map[string]any{"image_url": out.Photos[0].Src.Large, "query": query}, nil
}

// nestedImageResult wraps a generated URL in the generation service's
// nested response shape.
func nestedImageResult(imageURL, prompt string) map[string]any {
	return map[string]any{
		"result": map[string]any{
			"image_url": imageURL,
			"prompt":    prompt,
		},
	}
}

// placeholderURL is the offline-mode stand-in keyed by the brief id.
func placeholderURL(task *models.Task) string {
	briefID := task.StringContext(models.CtxBriefID)
	if briefID == "" {
		briefID = task.ID
	}
	return "https://images.invalid/contentpipe/" + briefID + ".png"
}
