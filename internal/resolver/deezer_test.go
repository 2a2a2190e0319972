package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"
)

func TestDeezerAdapter_ParseURL(t *testing.T) {
	adapter := NewDeezerAdapter(zap.NewNop())

	tests := []struct {
		name    string
		rawURL  string
		wantID  string
		wantErr bool
	}{
		{
			name:   "Track link",
			rawURL: "https://www.deezer.com/track/3135556",
			wantID: "3135556",
		},
		{
			name:   "Localized track link",
			rawURL: "https://www.deezer.com/en/track/3135556",
			wantID: "3135556",
		},
		{
			name:    "Album link is unsupported",
			rawURL:  "https://www.deezer.com/en/album/302127",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("url.Parse(%q) failed: %v", tt.rawURL, err)
			}

			id, _, err := adapter.ParseURL(u)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseURL(%q) expected error, got %q", tt.rawURL, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURL(%q) unexpected error: %v", tt.rawURL, err)
			}
			if id != tt.wantID {
				t.Errorf("ParseURL(%q) = %q, want %q", tt.rawURL, id, tt.wantID)
			}
		})
	}
}

func TestDeezerAdapter_FetchByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/track/3135556" {
			t.Errorf("request path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 3135556,
			"title": "Harder, Better, Faster, Stronger",
			"link": "https://www.deezer.com/track/3135556",
			"artist": {"name": "Daft Punk"},
			"album": {"cover_big": "https://cdn.example/big.jpg", "cover_medium": "https://cdn.example/med.jpg"}
		}`))
	}))
	defer srv.Close()

	adapter := NewDeezerAdapter(zap.NewNop())
	adapter.apiURL = srv.URL

	track, err := adapter.FetchByID(context.Background(), "3135556")
	if err != nil {
		t.Fatalf("FetchByID() unexpected error: %v", err)
	}

	if track.Title != "Harder, Better, Faster, Stronger" || track.Artist != "Daft Punk" {
		t.Errorf("FetchByID() = %q/%q", track.Title, track.Artist)
	}
	if track.Cover != "https://cdn.example/big.jpg" {
		t.Errorf("FetchByID() cover = %q, want cover_big preferred", track.Cover)
	}
}

func TestDeezerAdapter_FetchByID_ErrorEnvelope(t *testing.T) {
	// Deezer answers 200 with an error object for unknown IDs.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": {"type": "DataException", "message": "no data", "code": 800}}`))
	}))
	defer srv.Close()

	adapter := NewDeezerAdapter(zap.NewNop())
	adapter.apiURL = srv.URL

	_, err := adapter.FetchByID(context.Background(), "999999999")
	if err == nil {
		t.Fatal("FetchByID() expected error for Deezer error envelope")
	}
	if !errors.Is(sourceError(err), ErrNoMatch) {
		t.Errorf("sourceError(%v) classified as %v, want ErrNoMatch", err, sourceError(err))
	}
}

func TestDeezerAdapter_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "daft punk harder better" {
			t.Errorf("search query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{
					"id": 3135556,
					"title": "Harder, Better, Faster, Stronger",
					"link": "https://www.deezer.com/track/3135556",
					"artist": {"name": "Daft Punk"},
					"album": {"cover_medium": "https://cdn.example/med.jpg"}
				}
			]
		}`))
	}))
	defer srv.Close()

	adapter := NewDeezerAdapter(zap.NewNop())
	adapter.apiURL = srv.URL

	candidates, err := adapter.Search(context.Background(), "daft punk harder better")
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Search() returned %d candidates, want 1", len(candidates))
	}
	if candidates[0].Cover != "https://cdn.example/med.jpg" {
		t.Errorf("Search() cover = %q, want cover_medium fallback", candidates[0].Cover)
	}
}
