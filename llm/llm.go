package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindOllama   Kind = "ollama"
	KindLlamaCpp Kind = "llama-cpp"
)

const (
	NotAvailableMessage = "AI features not available"
	ErrorMessagePrefix  = "Error getting AI response: "
)

var (
	ErrNotRunning        = errors.New("backend is not running")
	ErrTimeout           = errors.New("backend timed out")
	ErrCanceled          = errors.New("request cancelled")
	ErrMalformedResponse = errors.New("malformed backend response")
	ErrUnavailable       = errors.New("no AI backend available")
	ErrModelFileMissing  = errors.New("model file not found")
	ErrModelFileCorrupt  = errors.New("model file is corrupt")
	ErrDependencyMissing = errors.New("required executable not found")
)

// IBackend is a loaded model ready to generate text.
type IBackend interface {
	Kind() Kind
	ModelName() string
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// IBackendProbe checks whether a backend variant can be used and returns it ready.
type IBackendProbe interface {
	Kind() Kind
	Probe(ctx context.Context) (IBackend, error)
}

type State int

const (
	Uninitialized State = iota
	Probing
	Ready
	Unavailable
)

func (state State) String() string {
	switch state {
	case Uninitialized:
		return "uninitialized"
	case Probing:
		return "probing"
	case Ready:
		return "ready"
	case Unavailable:
		return "unavailable"
	}
	return fmt.Sprintf("state(%d)", int(state))
}

// Resolver selects the first backend whose probe succeeds. Resolution happens once;
// an unavailable result is final.
type Resolver struct {
	Probes []IBackendProbe
	Logger *logrus.Logger

	state   State
	variant Kind
	client  *Client
}

func NewResolver(logger *logrus.Logger, probes ...IBackendProbe) *Resolver {
	return &Resolver{
		Probes: probes,
		Logger: logger,
	}
}

func (resolver *Resolver) State() State {
	return resolver.state
}

// Variant is the backend being probed or the one that became ready.
func (resolver *Resolver) Variant() Kind {
	return resolver.variant
}

// Resolve returns a ready client, or nil and ErrUnavailable joined with every probe failure.
func (resolver *Resolver) Resolve(ctx context.Context) (*Client, error) {
	switch resolver.state {
	case Ready:
		return resolver.client, nil
	case Unavailable:
		return nil, ErrUnavailable
	}

	var errs []error
	for _, probe := range resolver.Probes {
		resolver.state = Probing
		resolver.variant = probe.Kind()
		resolver.Logger.Infof("Checking AI backend %s", probe.Kind())

		backend, err := probe.Probe(ctx)
		if err != nil {
			resolver.Logger.Warnf("AI backend %s unavailable: %v", probe.Kind(), err)
			errs = append(errs, fmt.Errorf("%s: %w", probe.Kind(), err))
			continue
		}

		resolver.state = Ready
		resolver.client = &Client{Backend: backend, Logger: resolver.Logger}
		resolver.Logger.Infof("Using AI backend %s with model %s", backend.Kind(), backend.ModelName())
		return resolver.client, nil
	}

	resolver.state = Unavailable
	resolver.variant = ""
	return nil, errors.Join(append([]error{ErrUnavailable}, errs...)...)
}

// Initialize probes the backends in order. The returned client is nil when none is usable.
func Initialize(ctx context.Context, logger *logrus.Logger, probes ...IBackendProbe) (*Client, error) {
	return NewResolver(logger, probes...).Resolve(ctx)
}

// Client is the handle used by callers. A nil *Client means AI features are unavailable.
type Client struct {
	Backend IBackend
	Logger  *logrus.Logger
}

func (client *Client) Available() bool {
	return client != nil && client.Backend != nil
}

func (client *Client) Kind() Kind {
	if !client.Available() {
		return ""
	}
	return client.Backend.Kind()
}

func (client *Client) ModelName() string {
	if !client.Available() {
		return ""
	}
	return client.Backend.ModelName()
}

// Ask returns the generated text, or a readable message when generation fails.
func (client *Client) Ask(ctx context.Context, prompt string) string {
	if !client.Available() {
		return NotAvailableMessage
	}

	response, err := client.Backend.Generate(ctx, prompt)
	if err != nil {
		if client.Logger != nil {
			client.Logger.Errorf("AI request to %s failed: %v", client.Backend.Kind(), err)
		}
		return ErrorMessagePrefix + err.Error()
	}
	return strings.TrimSpace(response)
}

func (client *Client) Close() error {
	if !client.Available() {
		return nil
	}
	return client.Backend.Close()
}
