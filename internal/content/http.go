package content

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

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

var errMissingKey = errors.New("api key is missing")

const maxResponse = 1 << 20

// HTTPConfig configures the question generator endpoint. The endpoint speaks
// the OpenAI responses format and is asked for a JSON object.
type HTTPConfig struct {
	URL        string
	APIKey     string
	Model      string
	Timeout    time.Duration
	Retries    uint
	HTTPClient *http.Client
	// BackOff overrides the retry delay policy; nil means exponential.
	BackOff backoff.BackOff
}

// HTTPProvider generates missions through a hosted language model.
type HTTPProvider struct {
	cfg HTTPConfig
}

// NewHTTPProvider fills defaults into cfg.
func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = "https://api.openai.com/v1/responses"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	return &HTTPProvider{cfg: cfg}
}

// FetchQuestions asks the model for a briefing fact and count questions
// about a random subtopic of dest. Transient failures (transport errors,
// 429, 5xx) are retried; everything else fails at once.
func (p *HTTPProvider) FetchQuestions(ctx context.Context, dest galaxy.ID, d mission.Difficulty, count int) (mission.Briefing, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return mission.Briefing{}, fmt.Errorf("%w: %w", ErrProvider, errMissingKey)
	}
	count = max(1, count)
	subtopic := Subtopic(dest)

	body, err := json.Marshal(map[string]any{
		"model":        p.cfg.Model,
		"instructions": instructions(dest, subtopic, d, count),
		"input":        fmt.Sprintf("Generate a mission for %s.", subtopic),
		"text":         map[string]any{"format": map[string]string{"type": "json_object"}},
	})
	if err != nil {
		return mission.Briefing{}, fmt.Errorf("%w: marshal request: %w", ErrProvider, err)
	}

	bo := p.cfg.BackOff
	if bo == nil {
		bo = backoff.NewExponentialBackOff()
	}
	attempt := 0
	b, err := backoff.Retry(ctx, func() (mission.Briefing, error) {
		attempt++
		b, err := p.invoke(ctx, body)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("destination", string(dest)).Msg("question generation attempt failed")
		}
		return b, err
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(p.cfg.Retries))
	if err != nil {
		return mission.Briefing{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if b.Topic == "" {
		b.Topic = subtopic
	}
	return b, nil
}

func (p *HTTPProvider) invoke(ctx context.Context, body []byte) (mission.Briefing, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return mission.Briefing{}, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	res, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return mission.Briefing{}, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		err := fmt.Errorf("request status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
		if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500 {
			return mission.Briefing{}, err
		}
		return mission.Briefing{}, backoff.Permanent(err)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponse))
	if err != nil {
		return mission.Briefing{}, fmt.Errorf("read response: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return mission.Briefing{}, backoff.Permanent(errors.New("decode response: invalid json"))
	}
	text := strings.TrimSpace(gjson.GetBytes(raw, "output_text").String())
	if text == "" {
		gjson.GetBytes(raw, "output.#.content.#.text").ForEach(func(_, item gjson.Result) bool {
			item.ForEach(func(_, t gjson.Result) bool {
				text = strings.TrimSpace(t.String())
				return text == ""
			})
			return text == ""
		})
	}
	if text == "" {
		return mission.Briefing{}, backoff.Permanent(fmt.Errorf("response missing output text: %w", ErrNoContent))
	}

	var b mission.Briefing
	if err := json.Unmarshal([]byte(text), &b); err != nil {
		return mission.Briefing{}, backoff.Permanent(fmt.Errorf("parse mission: %w", err))
	}
	b.Padded = 0
	return b, nil
}

func instructions(dest galaxy.ID, subtopic string, d mission.Difficulty, count int) string {
	return fmt.Sprintf(`You are a friendly educational game host for children.
Create a mission about %q (Category: %s).
%s

First, provide a "fact": ONE interesting, educational fact about the topic that a child might not know.
Then, generate exactly %d multiple-choice trivia questions about the topic.
Respond with a JSON object: {"topic": string, "fact": string, "questions": [{"question": string, "options": [4 strings], "correctAnswerIndex": integer, "explanation": string}]}.
Ensure each "explanation" is a fun fact related to the answer.`, subtopic, dest, DifficultyInstruction(d), count)
}
