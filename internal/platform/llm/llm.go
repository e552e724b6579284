// Package llm defines the provider-neutral generation client used by the
// content services, plus the decoding rules applied to model output.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse means the provider answered but produced no text.
	ErrEmptyResponse = errors.New("model returned no text")
	// ErrEmptyArray means the provider wrapped its answer in an empty JSON array.
	ErrEmptyArray = errors.New("model returned an empty JSON array")
)

// Client generates text from a single user prompt.
type Client interface {
	// GenerateJSON asks the provider for a JSON document and returns the raw bytes.
	GenerateJSON(ctx context.Context, prompt string) ([]byte, error)
	// GenerateText asks for free-form text.
	GenerateText(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// MissingKeyError is returned by every call of a client whose API key was
// never configured. The process still starts; generation endpoints fail per request.
type MissingKeyError struct {
	EnvVar string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s not configured", e.EnvVar)
}

type unconfigured struct {
	provider string
	err      error
}

// Unconfigured returns a Client that fails every call with a MissingKeyError.
func Unconfigured(provider, envVar string) Client {
	return &unconfigured{provider: provider, err: &MissingKeyError{EnvVar: envVar}}
}

func (u *unconfigured) GenerateJSON(context.Context, string) ([]byte, error) { return nil, u.err }
func (u *unconfigured) GenerateText(context.Context, string) (string, error) { return "", u.err }
func (u *unconfigured) Provider() string                                     { return u.provider }

// DecodeObject unmarshals model JSON into out. Providers occasionally wrap the
// requested object in an array; in that case the first element is used.
func DecodeObject(raw []byte, out any) error {
	body := StripCodeFence(raw)
	if len(body) == 0 {
		return ErrEmptyResponse
	}
	if body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return fmt.Errorf("failed to parse model JSON: %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyArray
		}
		body = bytes.TrimSpace(items[0])
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return nil
}

// StripCodeFence removes a surrounding ``` fence (with optional language tag)
// and trims whitespace.
func StripCodeFence(raw []byte) []byte {
	body := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(body, []byte("```")) {
		return body
	}
	body = body[3:]
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = nil
	}
	body = bytes.TrimSpace(body)
	body = bytes.TrimSuffix(body, []byte("```"))
	return bytes.TrimSpace(body)
}

// StripTextFence is StripCodeFence for strings.
func StripTextFence(s string) string {
	return strings.TrimSpace(string(StripCodeFence([]byte(s))))
}
