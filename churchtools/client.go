// Package churchtools talks to the ChurchTools REST API and adapts it to the
// core interfaces (person.Directory, event.Calendar, core.SettingsStore).
package churchtools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/taufwerk/baptizo/core"
)

const requestTimeout = 30 * time.Second

type (
	Client struct {
		baseURL string // e.g. https://meinegemeinde.church.tools/api
		token   string
		http    *http.Client
		log     core.Logger
	}

	// StatusError is a non-2xx API response.
	StatusError struct {
		Code int
		Body string
	}

	// envelope is the standard ChurchTools response wrapper. Some endpoints
	// return the payload bare instead; decode falls back to that.
	envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *struct {
			Pagination *struct {
				LastPage int `json:"lastPage"`
			} `json:"pagination"`
		} `json:"meta"`
	}
)

func (e *StatusError) Error() string {
	return fmt.Sprintf("churchtools: unexpected status %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func NewClient(conf *core.Config, log core.Logger) *Client {
	base := strings.TrimRight(conf.ChurchTools.BaseURL, "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	return &Client{
		baseURL: base,
		token:   conf.ChurchTools.Token,
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Login "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrapf(err, "reading %s %s response", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: truncate(string(raw), 200)}
	}
	return raw, resp.StatusCode, nil
}

// get performs a GET and decodes the payload into out, unwrapping the
// {"data": ...} envelope when present. It returns the server-reported last
// page, or 0 when the response carried no pagination metadata.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) (int, error) {
	raw, _, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return 0, err
	}
	return decode(raw, out)
}

// send performs a mutating request; the response body is discarded.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) error {
	_, _, err := c.do(ctx, method, path, nil, body)
	return err
}

func decode(raw []byte, out interface{}) (int, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		lastPage := 0
		if env.Meta != nil && env.Meta.Pagination != nil {
			lastPage = env.Meta.Pagination.LastPage
		}
		if out == nil {
			return lastPage, nil
		}
		return lastPage, errors.Wrap(json.Unmarshal(env.Data, out), "decoding response data")
	}
	if out == nil {
		return 0, nil
	}
	// bare payload without envelope
	return 0, errors.Wrap(json.Unmarshal(raw, out), "decoding response")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
