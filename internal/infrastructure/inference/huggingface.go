// Package inference calls the Hugging Face hosted inference API.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/savefarm/savefarm/internal/core/impact"
	"github.com/savefarm/savefarm/internal/core/ports"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	DefaultModel   = "sshleifer/tiny-gpt2"

	maxErrorBody = 512
)

// DefaultFallbackModels are tried in order when the primary model is not
// served by the inference API.
var DefaultFallbackModels = []string{
	"facebook/bart-large-cnn",
	"google/flan-t5-small",
	"distilgpt2",
	"sshleifer/tiny-gpt2",
}

// StatusError is a non-2xx answer from the inference API.
type StatusError struct {
	Model  string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inference %s failed with status %d: %s", e.Model, e.Status, e.Body)
}

var errEmptyOutput = errors.New("no usable model output")

// Client implements ports.InferenceClient.
type Client struct {
	BaseURL        string
	Token          string
	Model          string
	FallbackModels []string
	HTTPClient     *http.Client
}

// Generate posts the prompt to the primary model. A 404 walks the fallback
// list; any other failure stops the walk.
func (c *Client) Generate(ctx context.Context, prompt string) (*ports.InferenceOutput, error) {
	model := strings.TrimSpace(c.Model)
	if model == "" {
		model = DefaultModel
	}

	body, err := c.call(ctx, model, prompt)
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		for _, fb := range c.FallbackModels {
			model = fb
			body, err = c.call(ctx, fb, prompt)
			if err == nil || !errors.As(err, &se) || se.Status != http.StatusNotFound {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}

	out, err := normalize(body)
	if err != nil {
		return nil, fmt.Errorf("inference %s: %w", model, err)
	}
	out.Model = model
	return out, nil
}

func (c *Client) call(ctx context.Context, model, prompt string) ([]byte, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, fmt.Errorf("encode inference request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/"+model, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute inference request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &StatusError{Model: model, Status: resp.StatusCode, Body: msg}
	}
	return body, nil
}

type generated struct {
	GeneratedText string `json:"generated_text"`
	SummaryText   string `json:"summary_text"`
}

// normalize reduces the response shapes of text generation and summarization
// models to text. An object that already carries animals_saved and comment is
// taken as a finished verdict.
func normalize(body []byte) (*ports.InferenceOutput, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errEmptyOutput
	}

	switch body[0] {
	case '[':
		var list []generated
		if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
			if t := firstNonEmpty(list[0].GeneratedText, list[0].SummaryText); t != "" {
				return &ports.InferenceOutput{Text: t}, nil
			}
		}
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, fmt.Errorf("decode inference response: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return nil, errEmptyOutput
		}
		return &ports.InferenceOutput{Text: s}, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("decode inference response: %w", err)
		}
		_, hasSaved := fields["animals_saved"]
		_, hasComment := fields["comment"]
		if hasSaved && hasComment {
			var res impact.Result
			if err := json.Unmarshal(body, &res); err == nil {
				return &ports.InferenceOutput{Verdict: &res}, nil
			}
		}
		var g generated
		if err := json.Unmarshal(body, &g); err == nil {
			if t := firstNonEmpty(g.SummaryText, g.GeneratedText); t != "" {
				return &ports.InferenceOutput{Text: t}, nil
			}
		}
	}
	return &ports.InferenceOutput{Text: string(body)}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
