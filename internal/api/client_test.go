package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/five82/backlog/internal/game"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBase {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBase)
	}

	u, err = parseBaseURL("https://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL, "", "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_FetchGamesAcceptsBothShapes(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"object": `{"games":[{"title":"Celeste (PC)","platform":"PC","status":"Completed","finishedDate":"01/02/2023","score":"8.5"}]}`,
		"array":  `[{"title":"Celeste (PC)","platform":"PC","status":"Completed","finishedDate":"01/02/2023","score":8.5}]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			var gotPath, gotUA string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotUA = r.Header.Get("User-Agent")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			})

			games, err := c.FetchGames(testContext(t))
			if err != nil {
				t.Fatalf("FetchGames returned error: %v", err)
			}
			if gotPath != defaultCatalogPath {
				t.Fatalf("path = %q, want %q", gotPath, defaultCatalogPath)
			}
			if gotUA != defaultUserAgent {
				t.Fatalf("User-Agent = %q, want %q", gotUA, defaultUserAgent)
			}
			if len(games) != 1 {
				t.Fatalf("games = %d, want 1", len(games))
			}
			g := games[0]
			if g.MainTitle != "Celeste" || g.Tier == nil || *g.Tier != game.TierA {
				t.Fatalf("game = %#v, want transformed Celeste with tier A", g)
			}
		})
	}
}

func TestClient_FetchGamesErrors(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	if _, err := c.FetchGames(testContext(t)); err == nil {
		t.Fatal("FetchGames error = nil, want status error")
	}

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"not a catalog"`))
	})
	if _, err := c.FetchGames(testContext(t)); err == nil {
		t.Fatal("FetchGames error = nil, want decode error")
	}
}

func TestClient_SavePostsGames(t *testing.T) {
	t.Parallel()

	var got SaveRequest
	var method, contentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(SaveResponse{OK: true, Saved: len(got.Games)})
	})

	games := []game.Game{game.Transform(game.Raw{Title: "Hades"})}
	if err := c.Save(testContext(t), games); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if method != http.MethodPost || contentType != "application/json" {
		t.Fatalf("request = %s %q, want POST application/json", method, contentType)
	}
	if len(got.Games) != 1 || got.Games[0].ID != games[0].ID {
		t.Fatalf("posted games = %#v, want Hades", got.Games)
	}
}

func TestClient_SaveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		body         string
		wantMessage  string
		connectivity bool
	}{
		{"error body", http.StatusBadRequest, `{"ok":false,"error":"invalid tier"}`, "invalid tier", false},
		{"plain text", http.StatusForbidden, "forbidden", "forbidden", false},
		{"gateway", http.StatusServiceUnavailable, "", "", true},
		{"not confirmed", http.StatusOK, `{"ok":false,"message":"read only"}`, "read only", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			err := c.Save(testContext(t), nil)
			var saveErr *SaveError
			if !errors.As(err, &saveErr) {
				t.Fatalf("Save error = %v, want *SaveError", err)
			}
			if saveErr.Message != tt.wantMessage {
				t.Fatalf("Message = %q, want %q", saveErr.Message, tt.wantMessage)
			}
			if saveErr.Connectivity() != tt.connectivity {
				t.Fatalf("Connectivity() = %v, want %v", saveErr.Connectivity(), tt.connectivity)
			}
		})
	}
}

func TestClient_UnreachableIsUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, "", "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.Ping(testContext(t))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Ping error = %v, want ErrUnavailable", err)
	}
	if err := c.Save(testContext(t), nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Save error = %v, want ErrUnavailable", err)
	}
}

func TestClient_PingUsesHead(t *testing.T) {
	t.Parallel()

	var method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	})
	if err := c.Ping(testContext(t)); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if method != http.MethodHead {
		t.Fatalf("method = %s, want HEAD", method)
	}
}
