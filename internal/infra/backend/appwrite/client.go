// Package appwrite implements the auth and data contracts against an
// Appwrite project over its REST API. Auth maps to account/session
// endpoints, data to the document-collection model.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"yougotthis/config"
	"yougotthis/internal/errors"
)

const requestTimeout = 30 * time.Second

// apiError is the error payload Appwrite returns for non-2xx responses.
type apiError struct {
	Status  int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("appwrite: %s (%s)", e.Message, e.Type)
}

// client is a minimal Appwrite REST client. It holds the session secret of
// the most recent login; all requests are sent with project and key headers
// plus the session header when one is live.
type client struct {
	endpoint   string
	projectID  string
	apiKey     string
	httpClient *http.Client

	mu      sync.Mutex
	session string
}

func newClient(cfg *config.AppwriteConfig) *client {
	return &client{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		projectID: cfg.ProjectID,
		apiKey:    cfg.APIKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (c *client) setSession(secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = secret
}

func (c *client) currentSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session
}

// do performs one JSON round-trip against the Appwrite endpoint. A non-2xx
// response is returned as *apiError.
func (c *client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.endpoint + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode appwrite request")
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build appwrite request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.projectID)
	if c.apiKey != "" {
		req.Header.Set("X-Appwrite-Key", c.apiKey)
	}
	if session := c.currentSession(); session != "" {
		req.Header.Set("X-Appwrite-Session", session)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "appwrite request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = resp.Status
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode appwrite response")
	}

	return nil
}

// Query helpers using Appwrite's query string syntax.

func queryEqual(attribute, value string) string {
	return fmt.Sprintf(`equal("%s", ["%s"])`, attribute, value)
}

func queryOrderDesc(attribute string) string {
	return fmt.Sprintf(`orderDesc("%s")`, attribute)
}

func queryOrderAsc(attribute string) string {
	return fmt.Sprintf(`orderAsc("%s")`, attribute)
}

func queryLimit(n int) string {
	return fmt.Sprintf(`limit(%d)`, n)
}

func queryOffset(n int) string {
	return fmt.Sprintf(`offset(%d)`, n)
}
