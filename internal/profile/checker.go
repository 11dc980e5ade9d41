// Package profile talks to the profile collaborator: the service that knows
// whether a user has filled in the academic details an assessment needs.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Checker reports whether a user's profile is complete enough to start an
// assessment.
type Checker interface {
	HasAcademicInfo(ctx context.Context, userID int64) (bool, error)
}

// StatusPath is the academic-status endpoint, formatted with the user ID.
const StatusPath = "/api/profile/%d/academic-status"

// StatusResponse is the body returned by the academic-status endpoint.
type StatusResponse struct {
	HasAcademicInfo bool `json:"has_academic_info"`
}

// HTTPChecker implements Checker against the profile service.
type HTTPChecker struct {
	baseURL string
	http    *http.Client
}

// NewHTTPChecker creates a checker for the profile service at baseURL.
func NewHTTPChecker(baseURL string, timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

var _ Checker = (*HTTPChecker)(nil)

// HasAcademicInfo fetches the user's academic status.
func (c *HTTPChecker) HasAcademicInfo(ctx context.Context, userID int64) (bool, error) {
	url := c.baseURL + fmt.Sprintf(StatusPath, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("profile lookup: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("profile lookup: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return false, fmt.Errorf("read profile response: %w", err)
	}
	var status StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return false, fmt.Errorf("decode profile response: %w", err)
	}
	return status.HasAcademicInfo, nil
}

// Static is a Checker with a fixed answer, used when no profile service is
// configured and in tests.
type Static struct {
	Complete bool
	Err      error
	Calls    int
}

// HasAcademicInfo returns the fixed answer.
func (s *Static) HasAcademicInfo(_ context.Context, _ int64) (bool, error) {
	s.Calls++
	return s.Complete, s.Err
}
