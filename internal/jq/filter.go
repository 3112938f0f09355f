// Package jq evaluates jq expressions over command results, backing the
// global --query flag.
package jq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

// DefaultTimeout bounds the execution time of a jq expression.
const DefaultTimeout = 1 * time.Second

// Filter evaluates jq expressions with timeout protection.
type Filter struct {
	timeout time.Duration
}

// New creates a Filter. A zero timeout uses DefaultTimeout.
func New(timeout time.Duration) *Filter {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Filter{timeout: timeout}
}

// Apply runs a jq expression against data and returns the filtered result.
// An empty expression returns the data unchanged. Data is normalized through
// JSON so typed values (string slices, structs) behave like jq inputs.
func (f *Filter) Apply(ctx context.Context, expression string, data interface{}) (interface{}, error) {
	if expression == "" {
		return data, nil
	}

	normalized, err := normalize(data)
	if err != nil {
		return nil, err
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile error: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resultChan := make(chan interface{}, 1)
	errorChan := make(chan error, 1)

	go func() {
		iter := code.Run(normalized)

		var results []interface{}
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				errorChan <- err
				return
			}
			results = append(results, v)
		}

		// A single result is returned directly; multiple results as an array.
		switch len(results) {
		case 0:
			resultChan <- nil
		case 1:
			resultChan <- results[0]
		default:
			resultChan <- results
		}
	}()

	select {
	case result := <-resultChan:
		return result, nil
	case err := <-errorChan:
		return nil, err
	case <-execCtx.Done():
		return nil, fmt.Errorf("query timeout after %v", f.timeout)
	}
}

// Validate checks a jq expression by compiling it, catching syntax errors
// before any request is made.
func (f *Filter) Validate(expression string) error {
	if expression == "" {
		return nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}

	if _, err := gojq.Compile(query); err != nil {
		return fmt.Errorf("jq compilation failed: %w", err)
	}

	return nil
}

// normalize round-trips data through JSON so gojq sees plain maps, slices,
// and scalars.
func normalize(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query input: %w", err)
	}

	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize query input: %w", err)
	}
	return out, nil
}
