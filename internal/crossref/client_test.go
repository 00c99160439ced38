package crossref

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_SearchTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works" {
			t.Errorf("path = %s, want /works", r.URL.Path)
		}
		if want := "query.title=Deep%20residual%20learning&rows=1&mailto=lab%40example.org"; r.URL.RawQuery != want {
			t.Errorf("query = %s, want %s", r.URL.RawQuery, want)
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "mailto:lab@example.org") {
			t.Errorf("User-Agent = %q, want contact address", ua)
		}
		w.Write([]byte(`{"status":"ok","message":{"items":[{"DOI":"10.1109/CVPR.2016.90","title":["Deep Residual Learning for Image Recognition"]}]}}`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithMailto("lab@example.org"))
	work, err := c.SearchTitle(context.Background(), "Deep residual learning")
	if err != nil {
		t.Fatalf("SearchTitle() error = %v", err)
	}
	if work.DOI != "10.1109/CVPR.2016.90" {
		t.Errorf("DOI = %q", work.DOI)
	}
	if len(work.Title) != 1 {
		t.Errorf("Title = %v", work.Title)
	}
}

func TestClient_SearchTitle_NoMailto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "mailto") {
			t.Errorf("query = %s, want no mailto", r.URL.RawQuery)
		}
		w.Write([]byte(`{"message":{"items":[{"DOI":"10.1/x"}]}}`))
	}))
	defer server.Close()

	if _, err := NewClient(WithBaseURL(server.URL)).SearchTitle(context.Background(), "x"); err != nil {
		t.Fatalf("SearchTitle() error = %v", err)
	}
}

func TestClient_SearchTitle_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		wantAPI   int
		rateLimit bool
	}{
		{name: "no items", status: 200, body: `{"message":{"items":[]}}`, wantErr: ErrNotFound},
		{name: "missing message", status: 200, body: `{}`, wantErr: ErrNotFound},
		{name: "item without DOI", status: 200, body: `{"message":{"items":[{"title":["x"]}]}}`, wantErr: ErrNotFound},
		{name: "malformed json", status: 200, body: `{"message":`, wantErr: ErrInvalidResponse},
		{name: "wrong shape", status: 200, body: `{"message":{"items":"nope"}}`, wantErr: ErrInvalidResponse},
		{name: "server error", status: 500, body: `oops`, wantAPI: 500},
		{name: "rate limited", status: 429, body: ``, wantAPI: 429, rateLimit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(WithBaseURL(server.URL)).SearchTitle(context.Background(), "title")
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("SearchTitle() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantAPI != 0 {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.wantAPI {
					t.Errorf("SearchTitle() error = %v, want APIError %d", err, tt.wantAPI)
				}
			}
			if IsRateLimited(err) != tt.rateLimit {
				t.Errorf("IsRateLimited() = %v, want %v", IsRateLimited(err), tt.rateLimit)
			}
		})
	}
}

func TestClient_SearchTitle_EmptyTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty title")
	}))
	defer server.Close()

	if _, err := NewClient(WithBaseURL(server.URL)).SearchTitle(context.Background(), " "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("SearchTitle() error = %v, want ErrEmptyQuery", err)
	}
}
