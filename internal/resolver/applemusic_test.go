package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"
)

func TestAppleMusicAdapter_ParseURL(t *testing.T) {
	adapter := NewAppleMusicAdapter(zap.NewNop())

	tests := []struct {
		name      string
		rawURL    string
		wantID    string
		wantTerms string
		wantErr   bool
	}{
		{
			name:   "Album link with track selector",
			rawURL: "https://music.apple.com/us/album/come-together/1441164426?i=1441164589",
			wantID: "1441164589",
		},
		{
			name:   "Song path",
			rawURL: "https://music.apple.com/us/song/come-together/1441164589",
			wantID: "1441164589",
		},
		{
			name:      "Album link without selector falls back to slug",
			rawURL:    "https://music.apple.com/us/album/abbey-road/1441164426",
			wantTerms: "abbey road",
		},
		{
			name:    "Storefront root has nothing to parse",
			rawURL:  "https://music.apple.com/us/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("url.Parse(%q) failed: %v", tt.rawURL, err)
			}

			id, terms, err := adapter.ParseURL(u)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseURL(%q) expected error, got id=%q terms=%q", tt.rawURL, id, terms)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURL(%q) unexpected error: %v", tt.rawURL, err)
			}
			if id != tt.wantID || terms != tt.wantTerms {
				t.Errorf("ParseURL(%q) = (%q, %q), want (%q, %q)", tt.rawURL, id, terms, tt.wantID, tt.wantTerms)
			}
		})
	}
}

func TestAppleMusicAdapter_FetchByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "1441164589" {
			t.Errorf("lookup id = %q, want 1441164589", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resultCount": 1,
			"results": [{
				"trackId": 1441164589,
				"trackName": "Come Together",
				"artistName": "The Beatles",
				"trackViewUrl": "https://music.apple.com/us/album/come-together/1441164426?i=1441164589",
				"artworkUrl100": "https://is1-ssl.mzstatic.com/image/abbey100.jpg"
			}]
		}`))
	}))
	defer srv.Close()

	adapter := NewAppleMusicAdapter(zap.NewNop())
	adapter.lookupURL = srv.URL

	track, err := adapter.FetchByID(context.Background(), "1441164589")
	if err != nil {
		t.Fatalf("FetchByID() unexpected error: %v", err)
	}

	if track.Title != "Come Together" || track.Artist != "The Beatles" {
		t.Errorf("FetchByID() = %q/%q", track.Title, track.Artist)
	}
	if track.NativeID != "1441164589" {
		t.Errorf("FetchByID() native ID = %q", track.NativeID)
	}
	if track.SourcePlatform != PlatformAppleMusic {
		t.Errorf("FetchByID() platform = %q", track.SourcePlatform)
	}
}

func TestAppleMusicAdapter_FetchByID_Missing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"resultCount": 0, "results": []}`))
	}))
	defer srv.Close()

	adapter := NewAppleMusicAdapter(zap.NewNop())
	adapter.lookupURL = srv.URL

	if _, err := adapter.FetchByID(context.Background(), "999"); err == nil {
		t.Fatal("FetchByID() expected error for empty lookup result")
	}
}

func TestAppleMusicAdapter_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("term"); got != "the beatles come together" {
			t.Errorf("search term = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resultCount": 2,
			"results": [
				{
					"trackId": 1441164589,
					"trackName": "Come Together",
					"artistName": "The Beatles",
					"trackViewUrl": "https://music.apple.com/us/album/come-together/1441164426?i=1441164589"
				},
				{
					"trackId": 42,
					"trackName": "Come Together (Karaoke Version)",
					"artistName": "Karaoke Band"
				}
			]
		}`))
	}))
	defer srv.Close()

	adapter := NewAppleMusicAdapter(zap.NewNop())
	adapter.searchURL = srv.URL

	candidates, err := adapter.Search(context.Background(), "the beatles come together")
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}

	// The second entry has no view URL and is dropped.
	if len(candidates) != 1 {
		t.Fatalf("Search() returned %d candidates, want 1", len(candidates))
	}
	if candidates[0].Title != "Come Together" || candidates[0].Artist != "The Beatles" {
		t.Errorf("Search() top candidate = %+v", candidates[0])
	}
}
