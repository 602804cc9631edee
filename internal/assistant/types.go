// Package assistant is the chat companion and report summariser. It talks to
// an llm.Provider and never lets a provider failure escape: callers always
// get text to show.
package assistant

import (
	"errors"
	"time"
)

// ErrEmptyPrompt is returned when the user text is empty or whitespace.
var ErrEmptyPrompt = errors.New("assistant: empty prompt")

// Sender identifies who wrote a transcript line.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderModel  Sender = "model"
	SenderSystem Sender = "system"
)

// Message is one line of the chat transcript.
type Message struct {
	ID     string    `json:"id"`
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"timestamp"`
}

// Reply is the assistant's answer to one prompt.
type Reply struct {
	Text string
	// Fallback is true when Text is canned because the provider failed or
	// none is configured.
	Fallback bool
}

// Analysis is the structured report summary.
type Analysis struct {
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
	Fallback       bool   `json:"-"`
}

// String joins summary and recommendation for display.
func (a Analysis) String() string {
	if a.Recommendation == "" {
		return a.Summary
	}
	return a.Summary + " " + a.Recommendation
}

// Config tunes the assistant. Zero values take the defaults below.
type Config struct {
	UserName string
	// Persona overrides the built-in system prompt. "{name}" is replaced
	// with UserName.
	Persona string
	// Fallback overrides the reply used when the provider fails.
	Fallback string

	MaxTokens   int
	Temperature float64
}

const (
	defaultUserName  = "Grandpa Lin"
	defaultMaxTokens = 512
)

func (c Config) withDefaults() Config {
	if c.UserName == "" {
		c.UserName = defaultUserName
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	return c
}
