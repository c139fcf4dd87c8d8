package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultModelPath         = "models/tinyllama.gguf"
	DefaultContextSize       = 512
	DefaultMaxTokens         = 300
	DefaultLlamaServer       = "llama-server"
	DefaultLoadTimeout       = 60 * time.Second
	DefaultCompletionTimeout = 120 * time.Second

	healthPollInterval = 250 * time.Millisecond
)

var ggufMagic = []byte("GGUF")

// LlamaCppBackend runs a GGUF model file through a llama.cpp server child process.
// When ServerURL is set the backend uses that server instead of starting one.
type LlamaCppBackend struct {
	ServerPath        string
	ServerURL         string
	ModelPath         string
	ContextSize       int
	MaxTokens         int
	LoadTimeout       time.Duration
	CompletionTimeout time.Duration
	HTTPClient        *http.Client
	Logger            *logrus.Logger

	process *exec.Cmd
	exited  chan error
}

func NewLlamaCppBackend(serverPath string, modelPath string, contextSize int, maxTokens int, logger *logrus.Logger) *LlamaCppBackend {
	if serverPath == "" {
		serverPath = DefaultLlamaServer
	}
	if modelPath == "" {
		modelPath = DefaultModelPath
	}
	if contextSize <= 0 {
		contextSize = DefaultContextSize
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &LlamaCppBackend{
		ServerPath:        serverPath,
		ModelPath:         modelPath,
		ContextSize:       contextSize,
		MaxTokens:         maxTokens,
		LoadTimeout:       DefaultLoadTimeout,
		CompletionTimeout: DefaultCompletionTimeout,
		HTTPClient:        &http.Client{},
		Logger:            logger,
	}
}

func (llama *LlamaCppBackend) Kind() Kind {
	return KindLlamaCpp
}

func (llama *LlamaCppBackend) ModelName() string {
	return llama.ModelPath
}

// Probe validates the weight file, loads it into a server with the configured context
// window and waits for the server to report healthy.
func (llama *LlamaCppBackend) Probe(ctx context.Context) (IBackend, error) {
	if err := ValidateModelFile(llama.ModelPath); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, llama.LoadTimeout)
	defer cancel()

	if llama.ServerURL == "" {
		if err := llama.startServer(); err != nil {
			return nil, err
		}
	}

	if err := llama.waitHealthy(ctx); err != nil {
		llama.Close()
		return nil, err
	}
	llama.Logger.Debugf("llama.cpp server ready at %s", llama.ServerURL)
	return llama, nil
}

// ValidateModelFile checks that path is a non-empty GGUF file.
func ValidateModelFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelFileMissing, err)
	}
	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrModelFileCorrupt, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelFileMissing, err)
	}
	defer file.Close()

	header := make([]byte, len(ggufMagic))
	if _, err := io.ReadFull(file, header); err != nil || !bytes.Equal(header, ggufMagic) {
		return fmt.Errorf("%w: %s is not a GGUF model file", ErrModelFileCorrupt, path)
	}
	return nil
}

func (llama *LlamaCppBackend) startServer() error {
	serverPath, err := exec.LookPath(llama.ServerPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDependencyMissing, llama.ServerPath, err)
	}

	port, err := freePort()
	if err != nil {
		return fmt.Errorf("failed to reserve a port for llama.cpp: %w", err)
	}

	cmd := exec.Command(serverPath,
		"-m", llama.ModelPath,
		"-c", strconv.Itoa(llama.ContextSize),
		"--host", "127.0.0.1",
		"--port", strconv.Itoa(port),
	)

	detachProcessGroup(cmd)

	llama.Logger.Infof("Starting llama.cpp server: %s", cmd.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start llama.cpp server: %w", err)
	}

	llama.process = cmd
	llama.exited = make(chan error, 1)
	go func() {
		llama.exited <- cmd.Wait()
	}()
	llama.ServerURL = fmt.Sprintf("http://127.0.0.1:%d", port)
	return nil
}

func freePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

func (llama *LlamaCppBackend) waitHealthy(ctx context.Context) error {
	ticker := time.NewTicker(healthPollInterval)
	defer ticker.Stop()

	for {
		if llama.healthy(ctx) {
			return nil
		}

		select {
		case err := <-llama.exited:
			llama.process = nil
			return fmt.Errorf("llama.cpp server exited while loading %s: %v", llama.ModelPath, err)
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return ErrCanceled
			}
			return fmt.Errorf("%w: model %s did not load", ErrTimeout, llama.ModelPath)
		case <-ticker.C:
		}
	}
}

func (llama *LlamaCppBackend) healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(llama.ServerURL, "/")+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := llama.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (llama *LlamaCppBackend) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, llama.CompletionTimeout)
	defer cancel()

	content, err := json.Marshal(CompletionRequest{Prompt: prompt, MaxTokens: llama.MaxTokens})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(llama.ServerURL, "/")+"/v1/completions", bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := llama.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", ErrCanceled
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var llamaErr LlamaCppError
		if err := json.NewDecoder(resp.Body).Decode(&llamaErr); err == nil && llamaErr.Error.Message != "" {
			return "", fmt.Errorf("llama.cpp error: %s", llamaErr.Error.Message)
		}
		return "", fmt.Errorf("llama.cpp error: %s", resp.Status)
	}

	var result CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", ErrMalformedResponse)
	}
	return result.Choices[0].Text, nil
}

// Close stops the server process started by Probe.
func (llama *LlamaCppBackend) Close() error {
	if llama.process == nil || llama.process.Process == nil {
		return nil
	}

	llama.Logger.Debugf("Stopping llama.cpp server (pid %d)", llama.process.Process.Pid)
	err := llama.process.Process.Kill()
	<-llama.exited
	llama.process = nil
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
