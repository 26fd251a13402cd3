package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// HTTPClient matches the subset of http.Client used by HTTPService.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPService implements Service backed by the site backend's catalog-entry
// REST endpoints.
type HTTPService struct {
	base   *url.URL
	client HTTPClient
}

// NewHTTPService constructs a Service that talks to the site backend.
func NewHTTPService(baseURL string, client HTTPClient) (*HTTPService, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("catalog: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base URL: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPService{
		base:   parsed,
		client: client,
	}, nil
}

// List fetches every catalog entry with children nested inline. Records come
// back raw; the store normalises them.
func (s *HTTPService) List(ctx context.Context, token string) ([]map[string]any, error) {
	req, err := s.newRequest(ctx, http.MethodGet, "/catalog-entries", nil, token)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.errorFromResponse(resp)
	}

	var payload []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: decode entry list: %w", err)
	}
	return payload, nil
}

// Detail fetches one entry by id, full detail, raw.
func (s *HTTPService) Detail(ctx context.Context, token string, id int64) (map[string]any, error) {
	endpoint := path.Join("/catalog-entries", strconv.FormatInt(id, 10))
	req, err := s.newRequest(ctx, http.MethodGet, endpoint, nil, token)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("catalog: entry %d: %w", id, ErrEntryNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, s.errorFromResponse(resp)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: decode entry detail: %w", err)
	}
	return payload, nil
}

// Save submits the full entry payload and returns the saved record raw; the
// id is populated for new entries.
func (s *HTTPService) Save(ctx context.Context, token string, entry Entry) (map[string]any, error) {
	req, err := s.newJSONRequest(ctx, http.MethodPost, "/catalog-entries/save", entry, token)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, s.errorFromResponse(resp)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: decode saved entry: %w", err)
	}
	return payload, nil
}

// Reorder submits the batched display-order reassignment for a sibling set.
func (s *HTTPService) Reorder(ctx context.Context, token string, updates []RankUpdate) error {
	body := map[string]any{"items": updates}
	req, err := s.newJSONRequest(ctx, http.MethodPut, "/catalog-entries/reorder", body, token)
	if err != nil {
		return err
	}
	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return s.errorFromResponse(resp)
	}
	return nil
}

// Toggle flips the entry's active flag and returns the resulting value.
func (s *HTTPService) Toggle(ctx context.Context, token string, id int64) (bool, error) {
	endpoint := path.Join("/catalog-entries", strconv.FormatInt(id, 10), "toggle")
	req, err := s.newRequest(ctx, http.MethodPost, endpoint, nil, token)
	if err != nil {
		return false, err
	}
	resp, err := s.do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, s.errorFromResponse(resp)
	}

	var payload struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("catalog: decode toggle response: %w", err)
	}
	return payload.Active, nil
}

// Delete removes an entry.
func (s *HTTPService) Delete(ctx context.Context, token string, id int64) error {
	endpoint := path.Join("/catalog-entries", strconv.FormatInt(id, 10))
	req, err := s.newRequest(ctx, http.MethodDelete, endpoint, nil, token)
	if err != nil {
		return err
	}
	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("catalog: entry %d: %w", id, ErrEntryNotFound)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return s.errorFromResponse(resp)
	}
	return nil
}

// Upload streams a file to the backend upload endpoint and returns the
// public URL. The file content itself is opaque to the console.
func (s *HTTPService) Upload(ctx context.Context, token, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("catalog: build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("catalog: read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("catalog: finalise upload form: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, "/catalog-entries/upload", &buf, token)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", s.errorFromResponse(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("catalog: read upload response: %w", err)
	}
	// The upload endpoint has answered both as a bare string and as a JSON
	// object over its lifetime.
	var wrapped struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.URL != "" {
		return wrapped.URL, nil
	}
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil && plain != "" {
		return plain, nil
	}
	return strings.TrimSpace(string(body)), nil
}

func (s *HTTPService) do(req *http.Request) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	return resp, nil
}

func (s *HTTPService) newRequest(ctx context.Context, method, endpoint string, body io.Reader, token string) (*http.Request, error) {
	urlStr := s.resolve(endpoint)
	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (s *HTTPService) newJSONRequest(ctx context.Context, method, endpoint string, payload any, token string) (*http.Request, error) {
	var buf bytes.Buffer
	if payload != nil {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			return nil, fmt.Errorf("catalog: encode payload: %w", err)
		}
	}
	req, err := s.newRequest(ctx, method, endpoint, &buf, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (s *HTTPService) resolve(endpoint string) string {
	if endpoint == "" {
		return s.base.String()
	}
	trimmed := strings.TrimPrefix(endpoint, "/")
	ref := &url.URL{Path: trimmed}
	return s.base.ResolveReference(ref).String()
}

func (s *HTTPService) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	type errorPayload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	var payload errorPayload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			return fmt.Errorf("catalog: backend error (%s): %s", strings.TrimSpace(payload.Code), payload.Message)
		}
	}
	if len(body) > 0 {
		return fmt.Errorf("catalog: backend error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("catalog: backend error (%d): %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
