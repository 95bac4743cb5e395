// Package advice turns a date range of income and expense data into a
// single templated prompt for an OpenAI-compatible chat endpoint and
// returns the model's narrative answer. It is one request-response with
// no retry; the caller decides what to do with a failure.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goya962/FinanceFlow/internal/core"
)

const promptTemplate = `You are a financial advisor. Analyze the following income and expense data for the period between %s and %s, and provide personalized financial advice. Format your response in markdown.

Income Data: %s
Expense Data: %s

Give advice for how I can better manage my finances.`

type Advisor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func New(baseURL, apiKey, model string) *Advisor {
	return &Advisor{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// Enabled reports whether an API key is configured.
func (a *Advisor) Enabled() bool {
	return a.apiKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Advise sends the records that fall between start and end (inclusive) to
// the model and returns its markdown advice.
func (a *Advisor) Advise(ctx context.Context, start, end core.Date, incomes []core.Income, expenses []core.Expense) (string, error) {
	if !a.Enabled() {
		return "", errors.New("advice is not configured")
	}

	incomeJSON, err := json.Marshal(filterIncomes(incomes, start, end))
	if err != nil {
		return "", fmt.Errorf("marshal income data: %w", err)
	}
	expenseJSON, err := json.Marshal(filterExpenses(expenses, start, end))
	if err != nil {
		return "", fmt.Errorf("marshal expense data: %w", err)
	}

	prompt := fmt.Sprintf(promptTemplate, start, end, incomeJSON, expenseJSON)
	payload, err := json.Marshal(chatRequest{
		Model:    a.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call advice API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("advice API returned %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("advice API returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func inRange(d, start, end core.Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

func filterIncomes(incomes []core.Income, start, end core.Date) []core.Income {
	out := []core.Income{}
	for _, i := range incomes {
		if inRange(i.Date, start, end) {
			out = append(out, i)
		}
	}
	return out
}

func filterExpenses(expenses []core.Expense, start, end core.Date) []core.Expense {
	out := []core.Expense{}
	for _, e := range expenses {
		if inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	return out
}
