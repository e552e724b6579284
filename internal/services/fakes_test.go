package services

import (
	"context"
	"sync"
	"sync/atomic"
)

// fakeLLM answers every call with the same canned output.
type fakeLLM struct {
	mu      sync.Mutex
	json    string
	text    string
	err     error
	calls   int32
	prompts []string
	// gate, when set, blocks each call until closed.
	gate chan struct{}
}

func (f *fakeLLM) record(prompt string) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string) ([]byte, error) {
	f.record(prompt)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.json), nil
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.record(prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

func (f *fakeLLM) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}
