package api

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

	"github.com/five82/backlog/internal/game"
)

// ErrUnavailable wraps failures to reach the server at all.
var ErrUnavailable = errors.New("catalog server unavailable")

// SaveError is a save the server received and refused.
type SaveError struct {
	Status  int
	Message string
}

func (e *SaveError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("save failed with status %d", e.Status)
	}
	return fmt.Sprintf("save failed (%d): %s", e.Status, e.Message)
}

// Connectivity reports whether the status points at an unreachable backend
// rather than a rejected request.
func (e *SaveError) Connectivity() bool {
	switch e.Status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

type unavailableError struct {
	err error
}

func (e *unavailableError) Error() string        { return fmt.Sprintf("%v: %v", ErrUnavailable, e.err) }
func (e *unavailableError) Unwrap() error        { return e.err }
func (e *unavailableError) Is(target error) bool { return target == ErrUnavailable }
func (e *unavailableError) Connectivity() bool   { return true }

// GameStore is implemented by *Client and lets callers substitute fakes.
type GameStore interface {
	FetchGames(ctx context.Context) ([]game.Game, error)
	Save(ctx context.Context, games []game.Game) error
	Ping(ctx context.Context) error
}

var _ GameStore = (*Client)(nil)

// Client talks to the catalog HTTP endpoints.
type Client struct {
	baseURL     *url.URL
	catalogPath string
	savePath    string
	http        *http.Client
	userAgent   string
}

const (
	defaultAPIBase     = "127.0.0.1:5173"
	defaultCatalogPath = "/games.json"
	defaultSavePath    = "/api/games"
	defaultUserAgent   = "backlog/0.1"
	requestTimeout     = 10 * time.Second
)

// NewClient builds a Client for apiBase. Empty paths use the defaults.
func NewClient(apiBase, catalogPath, savePath string) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(catalogPath) == "" {
		catalogPath = defaultCatalogPath
	}
	if strings.TrimSpace(savePath) == "" {
		savePath = defaultSavePath
	}
	return &Client{
		baseURL:     base,
		catalogPath: catalogPath,
		savePath:    savePath,
		http:        &http.Client{Timeout: requestTimeout},
		userAgent:   defaultUserAgent,
	}, nil
}

// FetchGames loads and transforms the catalog. The document may be an object
// with a games array or a bare array.
func (c *Client) FetchGames(ctx context.Context) ([]game.Game, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.catalogPath, nil, &body); err != nil {
		return nil, err
	}
	raws, err := DecodeCatalog(body)
	if err != nil {
		return nil, err
	}
	return game.TransformAll(raws), nil
}

// DecodeCatalog accepts {"games": [...]} or a bare array.
func DecodeCatalog(data []byte) ([]game.Raw, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode catalog: empty document")
	}
	if trimmed[0] == '[' {
		var raws []game.Raw
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return raws, nil
	}
	var doc CatalogDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Games, nil
}

// Save posts the full collection.
func (c *Client) Save(ctx context.Context, games []game.Game) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if games == nil {
		games = []game.Game{}
	}
	payload, err := json.Marshal(SaveRequest{Games: games})
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	var resp SaveResponse
	if err := c.do(ctx, http.MethodPost, c.savePath, payload, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return &SaveError{Status: http.StatusOK, Message: resp.messageOr("server did not confirm the save")}
	}
	return nil
}

// Ping checks that the catalog endpoint answers.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodHead, c.catalogPath, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &unavailableError{err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return responseError(method, path, resp)
	}
	if dest == nil || method == http.MethodHead {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func responseError(method, path string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if method != http.MethodPost {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	var body SaveResponse
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &body); err == nil {
		msg = body.messageOr(msg)
	}
	return &SaveError{Status: resp.StatusCode, Message: msg}
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
