// Package narrative produces a free-text field report for a finished run.
//
// The report comes from an external collaborator that may be slow or may
// fail. [Request] runs it on its own goroutine against a value copy of the
// final state, so the caller's world is never read or written while the
// report is in flight.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

const (
	// LoadingText is shown until the report arrives.
	LoadingText = "Loading field report..."

	DefaultTimeout = 30 * time.Second
)

// Narrator turns a prompt into report text.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// NarratorFunc adapts a function to the Narrator interface.
type NarratorFunc func(ctx context.Context, prompt string) (string, error)

func (f NarratorFunc) Narrate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Prompt builds the single text prompt from the final state.
func Prompt(s dynamo.Summary) string {
	return fmt.Sprintf("You are a planetary scientist observing a simulation of Daisyworld. "+
		"The experiment just ended. The final temperature was %.2fC, the white daisy population was %.2f%%, "+
		"and the black daisy population was %.2f%%. The outcome was '%s'. "+
		"Write a creative, narrative-style field report log entry explaining what you observed "+
		"and the likely story of this planet's fate.",
		s.Temperature, s.White*100, s.Black*100, s.EndReason)
}

// Pending is an in-flight report.
type Pending struct {
	mu   sync.Mutex
	text string
	err  error
	done chan struct{}
}

// Request starts narrating s in the background and returns immediately.
// A non-positive timeout uses DefaultTimeout.
func Request(ctx context.Context, n Narrator, s dynamo.Summary, timeout time.Duration) *Pending {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Pending{text: LoadingText, done: make(chan struct{})}
	prompt := Prompt(s)

	go func() {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		text, err := narrate(ctx, n, prompt)
		if err != nil {
			slog.Warn("narrative_failed", "error", err)
			text = fmt.Sprintf("An error occurred: %v", err)
		}

		p.mu.Lock()
		p.text, p.err = text, err
		p.mu.Unlock()
		close(p.done)
	}()
	return p
}

// narrate calls n, turning a panic into an error and abandoning the call
// when ctx ends first.
func narrate(ctx context.Context, n Narrator, prompt string) (string, error) {
	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- reply{err: fmt.Errorf("narrator panicked: %v", r)}
			}
		}()
		text, err := n.Narrate(ctx, prompt)
		ch <- reply{text: text, err: err}
	}()

	select {
	case r := <-ch:
		if r.err == nil && r.text == "" {
			return "", errors.New("empty report")
		}
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Text returns the report, or LoadingText while it is in flight. On
// failure it returns a description of the error.
func (p *Pending) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

// Done is closed once the report has settled.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err is the collaborator's error once settled.
func (p *Pending) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Wait blocks until the report settles or ctx ends.
func (p *Pending) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.Text(), nil
	case <-ctx.Done():
		return p.Text(), ctx.Err()
	}
}
