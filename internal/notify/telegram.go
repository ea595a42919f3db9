// Package notify sends run outcomes to a Telegram chat.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/hlybov/posterjob/internal/job"
)

const defaultAPIBase = "https://api.telegram.org"

// Config holds the notifier settings.
type Config struct {
	// Token is the bot token from @BotFather
	Token string

	// ChatID is the target chat (group ids are negative)
	ChatID string

	// APIBase overrides the Telegram API host (tests)
	APIBase string

	// Client overrides the HTTP client
	Client *http.Client
}

// Telegram posts run outcomes via the Bot API sendMessage method.
type Telegram struct {
	config Config
	client *http.Client
}

// New creates a new Telegram notifier.
func New(config Config) (*Telegram, error) {
	if config.Token == "" {
		return nil, ErrMissingToken
	}
	if config.ChatID == "" {
		return nil, ErrMissingChatID
	}

	if config.APIBase == "" {
		config.APIBase = defaultAPIBase
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Telegram{
		config: config,
		client: client,
	}, nil
}

// sendMessageParams are the Bot API sendMessage parameters.
type sendMessageParams struct {
	ChatID                string `url:"chat_id"`
	Text                  string `url:"text"`
	DisableWebPagePreview bool   `url:"disable_web_page_preview,omitempty"`
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Notify sends the run outcome to the configured chat.
func (t *Telegram) Notify(ctx context.Context, result *job.RunResult) error {
	return t.send(ctx, Message(result))
}

// send posts a single sendMessage call.
func (t *Telegram) send(ctx context.Context, text string) error {
	params := sendMessageParams{
		ChatID:                t.config.ChatID,
		Text:                  text,
		DisableWebPagePreview: true,
	}

	values, err := query.Values(params)
	if err != nil {
		return fmt.Errorf("encode sendMessage params: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.config.APIBase, t.config.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("telegram response (status %d): %w", resp.StatusCode, err)
	}
	if !decoded.OK {
		return fmt.Errorf("telegram rejected message: %s", decoded.Description)
	}

	return nil
}

// Message builds the notification text for a run result.
func Message(result *job.RunResult) string {
	var b strings.Builder

	if result.Completed {
		fmt.Fprintf(&b, "posterjob %s: all %d steps completed in %s\n",
			result.Date, result.Summary.TotalSteps,
			result.Summary.TotalTime.Round(time.Second))
	} else if result.Summary.FailedStep != "" {
		fmt.Fprintf(&b, "posterjob %s: FAILED at %s\n",
			result.Date, result.Summary.FailedStep)
	} else {
		fmt.Fprintf(&b, "posterjob %s: incomplete (%d of %d steps ran)\n",
			result.Date, result.Summary.Ran, result.Summary.TotalSteps)
	}

	for _, step := range result.Steps {
		switch step.Status {
		case job.StatusOK:
			fmt.Fprintf(&b, "- %s: ok (%s)\n", step.Name, step.Duration.Round(time.Second))
		case job.StatusFailed:
			fmt.Fprintf(&b, "- %s: failed, exit %d (%s)\n",
				step.Name, step.ExitCode, step.Duration.Round(time.Second))
		case job.StatusSkipped:
			fmt.Fprintf(&b, "- %s: skipped\n", step.Name)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
