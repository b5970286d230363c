package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/zerr"
)

const clientTimeout = 30 * time.Second

// Client talks to a running server.
type Client struct {
	http *http.Client
	base string
}

// NewClient creates a client for the server listening on addr.
func NewClient(addr string) *Client {
	netw, path := network(addr)
	base := "http://" + path
	transport := &http.Transport{}
	if netw == "unix" {
		base = "http://nole"
		transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", path)
		}
	}
	return &Client{
		http: &http.Client{Transport: transport, Timeout: clientTimeout},
		base: base,
	}
}

// Status fetches the server status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Shutdown asks the server to stop.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/shutdown", nil, nil)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zerr.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return zerr.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if unreachable(err) {
			return zerr.Wrap(domain.ErrDaemonNotRunning, err.Error())
		}
		return zerr.With(zerr.Wrap(domain.ErrDaemonRequestFailed, err.Error()), "path", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var e ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrDaemonRequestFailed, e.Error), "path", path),
			"status", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrDaemonRequestFailed, "invalid response: "+err.Error()), "path", path)
	}
	return nil
}

// unreachable reports whether err means nothing listens at the address.
func unreachable(err error) bool {
	return errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENOTSOCK)
}
