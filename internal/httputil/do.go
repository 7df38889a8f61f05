// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the collaborator clients.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/studykit/pkg/types"
)

// maxErrorBody bounds how much of a failed response body is kept in the error.
const maxErrorBody = 2048

// NewClient returns an http.Client with the configured timeout. A zero
// timeout leaves the client unbounded.
func NewClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// Do executes req once. Transport failures and non-2xx statuses are wrapped
// in types.ErrCollaboratorUnavailable with the service name for attribution.
// On success the caller owns resp.Body. There are no retries.
func Do(ctx context.Context, client *http.Client, req *http.Request, service string) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: calling %s after %v: %v",
			types.ErrCollaboratorUnavailable, service, time.Since(start).Round(time.Millisecond), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Service: service, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return resp, nil
}

// StatusError is returned by Do when the collaborator answers with a non-2xx
// status. It matches types.ErrCollaboratorUnavailable under errors.Is.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return types.ErrCollaboratorUnavailable }
