package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
)

// ErrContentTooShort is returned when the model judges the provided
// book content insufficient to produce a summary.
var ErrContentTooShort = errors.New("content too short to summarize")

// tooShortSentinel is the value the model is instructed to answer with
// when the input is insufficient. It must never be persisted.
const tooShortSentinel = "NONE"

// recommendationCount is the target size of a recommendation list.
const recommendationCount = 10

const summarizeSystemPrompt = "Summarize the following book in 100 words. " +
	"Title, author, publish year, genre and book content are provided. " +
	"Generate the summary from the given content only, without using prior knowledge. " +
	"Do not mention any out-of-context text. " +
	"If the book content is too short to summarize, answer exactly \"NONE\"."

const recommendSystemPrompt = "Recommend books to the user based on their interest. " +
	"Answer with a list of exactly 10 book titles separated by ';', with no extra text."

// ChatCompletionFacade talks to an OpenAI-compatible
// /v1/chat/completions endpoint. Works with any provider exposing that
// surface; apiKey may be empty for unauthenticated local models.
type ChatCompletionFacade struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewChatCompletionFacade creates a facade. baseURL should include the
// /v1 prefix, e.g. "https://api.groq.com/openai/v1". The client timeout
// bounds a single collaborator call.
func NewChatCompletionFacade(baseURL, apiKey, model string, timeout time.Duration, log *zap.SugaredLogger) *ChatCompletionFacade {
	return &ChatCompletionFacade{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		model:      strings.TrimSpace(model),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Summarize asks the model for a summary of the given book content.
// Returns ErrContentTooShort when the model answers the too-short
// sentinel; the caller must not persist anything in that case.
func (f *ChatCompletionFacade) Summarize(ctx context.Context, book *models.BookDB, content string) (string, error) {
	userPrompt := fmt.Sprintf(
		"Title: %s, Author: %s, Publish Year: %d, Genre: %s, Book Content: %s",
		book.Title, book.Author, book.YearPublished, book.Genre, content,
	)

	text, err := f.complete(ctx, summarizeSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	if strings.Contains(text, tooShortSentinel) {
		return "", ErrContentTooShort
	}
	return text, nil
}

// Recommend asks the model for titles matching a genre. The raw answer
// is whitespace-normalized and split on ';'; empty entries are dropped
// and the list is capped at 10 titles.
func (f *ChatCompletionFacade) Recommend(ctx context.Context, genre models.Genre) ([]string, error) {
	userPrompt := fmt.Sprintf("User is interested in the %s genre.", genre)

	text, err := f.complete(ctx, recommendSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	normalized := strings.Join(strings.Fields(text), " ")
	parts := strings.Split(normalized, ";")

	titles := make([]string, 0, recommendationCount)
	for _, part := range parts {
		title := strings.TrimSpace(part)
		if title == "" {
			continue
		}
		titles = append(titles, title)
		if len(titles) == recommendationCount {
			break
		}
	}

	return titles, nil
}

func (f *ChatCompletionFacade) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: f.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := f.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.Errorw("chat completion request failed", "url", url, "error", err)
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp chatErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		f.log.Errorw("chat completion api error", "status", resp.Status, "message", errResp.Error.Message)
		if errResp.Error.Message != "" {
			return "", fmt.Errorf("chat completion api error: %s", errResp.Error.Message)
		}
		return "", fmt.Errorf("chat completion api error: %s", resp.Status)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("chat completion decode: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("empty response from chat completion api")
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response from chat completion api")
	}
	return text, nil
}

// OpenAI-compatible request/response types.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
