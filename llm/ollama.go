package llm

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

	"github.com/sirupsen/logrus"
)

const (
	DefaultOllamaURL       = "http://127.0.0.1:11434"
	DefaultModelName       = "tinyllama"
	DefaultListTimeout     = 10 * time.Second
	DefaultPullTimeout     = 10 * time.Minute
	DefaultGenerateTimeout = 30 * time.Second
)

// OllamaBackend talks to a local Ollama daemon over its HTTP API.
type OllamaBackend struct {
	BaseURL         string
	Model           string
	ListTimeout     time.Duration
	PullTimeout     time.Duration
	GenerateTimeout time.Duration
	HTTPClient      *http.Client
	Logger          *logrus.Logger
}

func NewOllamaBackend(baseURL string, modelName string, logger *logrus.Logger) *OllamaBackend {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if modelName == "" {
		modelName = DefaultModelName
	}

	return &OllamaBackend{
		BaseURL:         strings.TrimSuffix(baseURL, "/"),
		Model:           modelName,
		ListTimeout:     DefaultListTimeout,
		PullTimeout:     DefaultPullTimeout,
		GenerateTimeout: DefaultGenerateTimeout,
		HTTPClient:      &http.Client{},
		Logger:          logger,
	}
}

func (ollama *OllamaBackend) Kind() Kind {
	return KindOllama
}

func (ollama *OllamaBackend) ModelName() string {
	return ollama.Model
}

// Probe checks that the daemon answers and that the model is present, pulling it
// when it is missing.
func (ollama *OllamaBackend) Probe(ctx context.Context) (IBackend, error) {
	models, err := ollama.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	if hasModel(models, ollama.Model) {
		ollama.Logger.Debugf("Ollama model %s is available", ollama.Model)
		return ollama, nil
	}

	ollama.Logger.Warnf("Model %s not found. Pulling it...", ollama.Model)
	if err := ollama.PullModel(ctx, ollama.Model); err != nil {
		return nil, err
	}
	return ollama, nil
}

func hasModel(models []ModelInfo, modelName string) bool {
	for _, model := range models {
		for _, name := range []string{model.Name, model.Model} {
			if name == modelName || name == modelName+":latest" {
				return true
			}
		}
	}
	return false
}

func (ollama *OllamaBackend) ListModels(ctx context.Context) ([]ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, ollama.ListTimeout)
	defer cancel()

	var result ListModelsResponse
	if err := ollama.do(ctx, http.MethodGet, "/api/tags", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return result.Models, nil
}

func (ollama *OllamaBackend) PullModel(ctx context.Context, modelName string) error {
	ctx, cancel := context.WithTimeout(ctx, ollama.PullTimeout)
	defer cancel()

	var result PullResponse
	request := PullRequest{Model: modelName, Name: modelName, Stream: false}
	if err := ollama.do(ctx, http.MethodPost, "/api/pull", request, &result); err != nil {
		return fmt.Errorf("failed to pull model %s: %w", modelName, err)
	}
	if result.Status != "success" {
		return fmt.Errorf("failed to pull model %s: status %q", modelName, result.Status)
	}
	return nil
}

func (ollama *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ollama.GenerateTimeout)
	defer cancel()

	var result GenerateResponse
	request := GenerateRequest{Model: ollama.Model, Prompt: prompt, Stream: false}
	if err := ollama.do(ctx, http.MethodPost, "/api/generate", request, &result); err != nil {
		return "", err
	}
	if result.Response == "" {
		return "No response received", nil
	}
	return result.Response, nil
}

func (ollama *OllamaBackend) Close() error {
	return nil
}

func (ollama *OllamaBackend) do(ctx context.Context, method string, path string, request any, result any) error {
	var body io.Reader
	if request != nil {
		content, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(content)
	}

	req, err := http.NewRequestWithContext(ctx, method, ollama.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if request != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	ollama.Logger.Tracef("Ollama request: %s %s", method, path)
	resp, err := ollama.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ErrCanceled
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ollamaErr OllamaError
		if err := json.NewDecoder(resp.Body).Decode(&ollamaErr); err == nil && ollamaErr.Error != "" {
			return fmt.Errorf("ollama error: %s", ollamaErr.Error)
		}
		return fmt.Errorf("ollama error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ErrCanceled
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
