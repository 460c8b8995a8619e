package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentpipe/pkg/models"
)

// DefaultTelegramAPIBase is the production Telegram Bot API host.
const DefaultTelegramAPIBase = "https://api.telegram.org"

// Publisher delivers produced content to a platform. Telegram is the one
// platform currently implemented; publish tasks for anything else fail.
type Publisher struct {
	httpClient *http.Client
	apiBase    string
	botToken   string
}

// NewPublisher creates a publishing worker for the Telegram Bot API.
// An empty apiBase falls back to DefaultTelegramAPIBase.
func NewPublisher(botToken, apiBase string) *Publisher {
	if apiBase == "" {
		apiBase = DefaultTelegramAPIBase
	}
	return &Publisher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    apiBase,
		botToken:   botToken,
	}
}

// ExecuteTask sends the task's propagated content to its destination
// account. In test mode nothing leaves the process.
func (p *Publisher) ExecuteTask(ctx context.Context, task *models.Task) (map[string]any, error) {
	platform := task.StringContext(models.CtxPlatform)
	if platform != "telegram" {
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}

	content, _ := task.Context[models.CtxContent].(map[string]any)
	if len(content) == 0 {
		// The first-match-only propagation rule leaves duplicate publish
		// tasks contentless; they fail here, visibly.
		return nil, fmt.Errorf("publish task %s has no content", task.ID)
	}

	text := renderText(content)
	media := stringList(content[models.ContentMediaURLs])

	if testMode, _ := task.Context[models.CtxTestMode].(bool); testMode {
		return map[string]any{
			"published": false,
			"test_mode": true,
			"platform":  platform,
			"text":      text,
		}, nil
	}

	chatID := task.StringContext(models.CtxAccountID)
	if chatID == "" {
		return nil, fmt.Errorf("publish task %s has no destination account", task.ID)
	}
	if p.botToken == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	var messageID int64
	var err error
	if len(media) > 0 {
		messageID, err = p.sendPhoto(ctx, chatID, media[0], text)
	} else {
		messageID, err = p.sendMessage(ctx, chatID, text)
	}
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"published":  true,
		"platform":   platform,
		"message_id": messageID,
	}, nil
}

// renderText flattens the content map into one message body.
func renderText(content map[string]any) string {
	var parts []string
	if title, _ := content[models.ContentTitle].(string); title != "" {
		parts = append(parts, title)
	}
	if text, _ := content[models.ContentText].(string); text != "" {
		parts = append(parts, text)
	}
	if hashtags := stringList(content[models.ContentHashtags]); len(hashtags) > 0 {
		parts = append(parts, strings.Join(hashtags, " "))
	}
	return strings.Join(parts, "\n\n")
}

// sendMessage posts a text-only message.
func (p *Publisher) sendMessage(ctx context.Context, chatID, text string) (int64, error) {
	return p.call(ctx, "sendMessage", url.Values{
		"chat_id": {chatID},
		"text":    {text},
	})
}

// sendPhoto posts the first media URL with the text as caption.
func (p *Publisher) sendPhoto(ctx context.Context, chatID, photoURL, caption string) (int64, error) {
	return p.call(ctx, "sendPhoto", url.Values{
		"chat_id": {chatID},
		"photo":   {photoURL},
		"caption": {caption},
	})
}

// call invokes one Bot API method and returns the resulting message id.
func (p *Publisher) call(ctx context.Context, method string, params url.Values) (int64, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", p.apiBase, p.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return 0, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var out struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode telegram %s response: %w", method, err)
	}
	if !out.OK {
		return 0, fmt.Errorf("telegram %s failed: %s", method, out.Description)
	}
	return out.Result.MessageID, nil
}
