package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog api returned status %d: %s", e.StatusCode, e.Body)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Response is a successful reply with its raw body and headers.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Decode(v interface{}) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode catalog api response: %w", err)
	}
	return nil
}

// ResourceClient issues JSON requests against named resource collections
// such as "products" or "categories".
type ResourceClient interface {
	List(ctx context.Context, resource string, params url.Values) (*Response, error)
	Get(ctx context.Context, resource string, id ID) (*Response, error)
	Create(ctx context.Context, resource string, body interface{}) (*Response, error)
	Update(ctx context.Context, resource string, id ID, body interface{}) (*Response, error)
	Delete(ctx context.Context, resource string, id ID) error
}

type resourceHTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewResourceHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) ResourceClient {
	return &resourceHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *resourceHTTPClient) List(ctx context.Context, resource string, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.collectionURL(resource, params), nil)
}

func (c *resourceHTTPClient) Get(ctx context.Context, resource string, id ID) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.itemURL(resource, id), nil)
}

func (c *resourceHTTPClient) Create(ctx context.Context, resource string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.collectionURL(resource, nil), body)
}

func (c *resourceHTTPClient) Update(ctx context.Context, resource string, id ID, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPut, c.itemURL(resource, id), body)
}

func (c *resourceHTTPClient) Delete(ctx context.Context, resource string, id ID) error {
	_, err := c.do(ctx, http.MethodDelete, c.itemURL(resource, id), nil)
	return err
}

func (c *resourceHTTPClient) collectionURL(resource string, params url.Values) string {
	u := fmt.Sprintf("%s/%s", c.baseURL, resource)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *resourceHTTPClient) itemURL(resource string, id ID) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, resource, url.PathEscape(id.String()))
}

func (c *resourceHTTPClient) do(ctx context.Context, method, target string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.log.Errorf("ResourceClient: Failed to marshal %s %s body: %v", method, target, err)
			return nil, fmt.Errorf("failed to prepare request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		c.log.Errorf("ResourceClient: Failed to create %s request for %s: %v", method, target, err)
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debugf("ResourceClient: %s %s", method, target)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("ResourceClient: Failed to execute %s %s: %v", method, target, err)
		return nil, fmt.Errorf("failed to communicate with catalog api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("ResourceClient: Failed to read %s %s response: %v", method, target, err)
		return nil, fmt.Errorf("failed to read catalog api response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		c.log.Warnf("ResourceClient: %s %s not found (status %d)", method, target, resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Errorf("ResourceClient: %s %s failed with status %d. Response body: %s", method, target, resp.StatusCode, string(data))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	c.log.Debugf("ResourceClient: %s %s returned status %d", method, target, resp.StatusCode)
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
