package shell

import (
	"errors"
	"strings"

	"github.com/peterh/liner"
)

// ErrAborted is returned by a prompter when the user presses Ctrl+C at a prompt.
var ErrAborted = errors.New("prompt aborted")

type IPrompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// LinerPrompter reads lines from the terminal with line editing and history.
type LinerPrompter struct {
	state *liner.State
}

func NewLinerPrompter() *LinerPrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinerPrompter{state: state}
}

func (prompter *LinerPrompter) Prompt(prompt string) (string, error) {
	input, err := prompter.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrAborted
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		prompter.state.AppendHistory(input)
	}
	return input, nil
}

func (prompter *LinerPrompter) Close() error {
	return prompter.state.Close()
}
