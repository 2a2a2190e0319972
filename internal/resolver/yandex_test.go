package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestYandexMusicAdapter_FetchByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/track/123456" {
			t.Errorf("request path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="Кукушка"/>
			<meta property="og:description" content="Listen to Кукушка by Кино on Yandex Music"/>
			<meta property="og:image" content="https://avatars.yandex.net/get-music-content/cover/400x400"/>
		</head></html>`))
	}))
	defer srv.Close()

	adapter := NewYandexMusicAdapter(zap.NewNop())
	adapter.baseURL = srv.URL

	track, err := adapter.FetchByID(context.Background(), "123456")
	if err != nil {
		t.Fatalf("FetchByID() unexpected error: %v", err)
	}

	if track.Title != "Кукушка" || track.Artist != "Кино" {
		t.Errorf("FetchByID() = %q/%q", track.Title, track.Artist)
	}
	if track.SourceURL != srv.URL+"/track/123456" {
		t.Errorf("FetchByID() source URL = %q", track.SourceURL)
	}
}

func TestYandexMusicAdapter_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != yandexSearchPath {
			t.Errorf("request path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("text"); got != "кино кукушка" {
			t.Errorf("search text = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tracks": {
				"items": [{
					"id": 123456,
					"title": "Кукушка",
					"artists": [{"name": "Кино"}, {"name": "Виктор Цой"}],
					"albums": [{"id": 777, "coverUri": "avatars.yandex.net/get-music-content/abc/%%"}]
				}]
			}
		}`))
	}))
	defer srv.Close()

	adapter := NewYandexMusicAdapter(zap.NewNop())
	adapter.baseURL = srv.URL

	candidates, err := adapter.Search(context.Background(), "кино кукушка")
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Search() returned %d candidates, want 1", len(candidates))
	}

	got := candidates[0]
	if got.Artist != "Кино, Виктор Цой" {
		t.Errorf("Search() artist = %q", got.Artist)
	}
	if got.Cover != "https://avatars.yandex.net/get-music-content/abc/400x400" {
		t.Errorf("Search() cover = %q", got.Cover)
	}
	if got.URL != srv.URL+"/album/777/track/123456" {
		t.Errorf("Search() URL = %q", got.URL)
	}
}
