// Package recipe turns ingredient requests into recipes via the Gemini API.
package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nonnoweb/nonnoweb/internal/model"
)

// Defaults for the Gemini client.
const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel       = "gemini-3-flash-preview"
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second

	apiKeyHeader = "x-goog-api-key"
)

// Generation errors.
var (
	ErrMissingCredential  = errors.New("missing API credential")
	ErrServiceUnavailable = errors.New("generation service unavailable")
	ErrMalformedResponse  = errors.New("malformed generation response")
)

// Generator produces a recipe for a request. The returned recipe carries no
// id or timestamp.
type Generator interface {
	Generate(ctx context.Context, req model.RecipeRequest) (*model.Recipe, error)
}

// Config configures a GeminiClient.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// GeminiClient calls the generateContent endpoint with a JSON response schema.
type GeminiClient struct {
	cfg        Config
	httpClient *http.Client
	validate   *validator.Validate
}

// NewGeminiClient creates a client, filling unset fields with defaults.
func NewGeminiClient(cfg Config) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		validate:   validator.New(),
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   responseSchema `json:"responseSchema"`
	Temperature      float64        `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// generated mirrors the response schema; pointers detect missing fields.
type generated struct {
	RecipeName        *string  `json:"recipeName" validate:"required,min=1"`
	Description       *string  `json:"description" validate:"required"`
	IngredientsList   []string `json:"ingredientsList" validate:"required,min=1"`
	Steps             []string `json:"steps" validate:"required,min=1"`
	WinePairing       *string  `json:"winePairing" validate:"required"`
	WinePairingReason *string  `json:"winePairingReason" validate:"required"`
	NonnoTip          *string  `json:"nonnoTip" validate:"required"`
	PrepTimeMinutes   *int     `json:"prepTimeMinutes" validate:"required,min=0"`
}

// Generate implements Generator. Failures are not retried.
func (c *GeminiClient) Generate(ctx context.Context, req model.RecipeRequest) (*model.Recipe, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: BuildPrompt(req)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   recipeSchema,
			Temperature:      c.cfg.Temperature,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		c.cfg.BaseURL, url.PathEscape(c.cfg.Model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error carries the full request URL; keep only the cause.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", ErrServiceUnavailable, resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrServiceUnavailable, resp.StatusCode)
	}

	return c.decode(respBody)
}

func (c *GeminiClient) decode(body []byte) (*model.Recipe, error) {
	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}

	var g generated
	if err := json.Unmarshal([]byte(text), &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := c.validate.Struct(g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &model.Recipe{
		Name:              *g.RecipeName,
		Description:       *g.Description,
		Ingredients:       g.IngredientsList,
		Steps:             g.Steps,
		WinePairing:       *g.WinePairing,
		WinePairingReason: *g.WinePairingReason,
		Tip:               *g.NonnoTip,
		PrepTimeMinutes:   *g.PrepTimeMinutes,
	}, nil
}
