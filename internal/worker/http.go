package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fleetd/internal/registry"
	"fleetd/pkg/types"
)

// DefaultCallTimeout bounds a single worker RPC. The supervisor adds no
// timeout layer of its own beyond dead-worker detection.
const DefaultCallTimeout = 30 * time.Second

// HTTPClient talks JSON over HTTP to a worker's control endpoint.
type HTTPClient struct {
	address string
	base    string
	http    *http.Client
}

// NewHTTPClient binds a client to a worker address ("host:port").
func NewHTTPClient(address string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &HTTPClient{
		address: address,
		base:    "http://" + address,
		http:    &http.Client{Timeout: timeout},
	}
}

// HTTPDialer returns a Dialer producing HTTPClients with the given
// per-call timeout.
func HTTPDialer(timeout time.Duration) Dialer {
	return func(address string) (Client, error) {
		if address == "" {
			return nil, fmt.Errorf("dial worker: empty address")
		}
		return NewHTTPClient(address, timeout), nil
	}
}

func (c *HTTPClient) Address() string { return c.address }

func (c *HTTPClient) GetModelCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/models/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *HTTPClient) LoadModel(ctx context.Context, replicaModelID string, spec types.ModelSpec) error {
	return c.do(ctx, http.MethodPost, "/v1/models/"+url.PathEscape(replicaModelID), spec, nil)
}

func (c *HTTPClient) UnloadModel(ctx context.Context, replicaModelID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/models/"+url.PathEscape(replicaModelID), nil, nil)
}

func (c *HTTPClient) DescribeModel(ctx context.Context, replicaModelID string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/v1/models/"+url.PathEscape(replicaModelID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListModels(ctx context.Context) (map[string]map[string]any, error) {
	var out map[string]map[string]any
	if err := c.do(ctx, http.MethodGet, "/v1/models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetModelHandle(ctx context.Context, replicaModelID string) (ModelHandle, error) {
	// The worker confirms the replica is live; the handle itself is just
	// the (address, replica id) pair callers route traffic with.
	if _, err := c.DescribeModel(ctx, replicaModelID); err != nil {
		return ModelHandle{}, err
	}
	return ModelHandle{ReplicaModelID: replicaModelID, WorkerAddress: c.address}, nil
}

func (c *HTTPClient) RegisterFamily(ctx context.Context, kind types.ModelKind, f registry.Family, persist bool) error {
	body := struct {
		Family  registry.Family `json:"family"`
		Persist bool            `json:"persist"`
	}{Family: f, Persist: persist}
	return c.do(ctx, http.MethodPost, "/v1/families/"+url.PathEscape(kind.String()), body, nil)
}

func (c *HTTPClient) UnregisterFamily(ctx context.Context, kind types.ModelKind, name string) error {
	p := "/v1/families/" + url.PathEscape(kind.String()) + "/" + url.PathEscape(name)
	return c.do(ctx, http.MethodDelete, p, nil, nil)
}

// do issues one JSON request and decodes the response into out when set.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
