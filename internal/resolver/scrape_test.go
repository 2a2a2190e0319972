package resolver

import "testing"

func TestExtractPageMetadata(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		suffix     string
		wantTitle  string
		wantArtist string
		wantCover  string
	}{
		{
			name: "OpenGraph tags with artist in description",
			doc: `<html><head>
				<meta property="og:title" content="Bohemian Rhapsody"/>
				<meta property="og:description" content="Listen to Bohemian Rhapsody by Queen on TIDAL"/>
				<meta property="og:image" content="https://cdn.example/cover.jpg"/>
			</head></html>`,
			wantTitle:  "Bohemian Rhapsody",
			wantArtist: "Queen",
			wantCover:  "https://cdn.example/cover.jpg",
		},
		{
			name: "Artist embedded in og:title",
			doc: `<meta property="og:title" content="Bohemian Rhapsody - Queen"/>
				<meta property="og:image" content="https://cdn.example/cover.jpg"/>`,
			wantTitle:  "Bohemian Rhapsody",
			wantArtist: "Queen",
			wantCover:  "https://cdn.example/cover.jpg",
		},
		{
			name:       "Title tag fallback with service suffix",
			doc:        `<html><head><title>Bohemian Rhapsody – Queen — Service</title></head></html>`,
			suffix:     "— Service",
			wantTitle:  "Bohemian Rhapsody",
			wantArtist: "Queen",
		},
		{
			name:      "HTML entities are decoded",
			doc:       `<meta property="og:title" content="Don&#39;t Stop Me Now"/>`,
			wantTitle: "Don't Stop Me Now",
		},
		{
			name: "Nothing usable",
			doc:  `<html><body>not a track page</body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := extractPageMetadata(tt.doc, tt.suffix)
			if meta.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", meta.Title, tt.wantTitle)
			}
			if meta.Artist != tt.wantArtist {
				t.Errorf("artist = %q, want %q", meta.Artist, tt.wantArtist)
			}
			if meta.Cover != tt.wantCover {
				t.Errorf("cover = %q, want %q", meta.Cover, tt.wantCover)
			}
		})
	}
}

func TestArtistFromDescription(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Listen to Bohemian Rhapsody by Queen on TIDAL", "Queen"},
		{"Song by Daft Punk. Released 2001.", "Daft Punk"},
		{"Track by Artist | Platform", "Artist"},
		{"No artist marker here", ""},
	}

	for _, tt := range tests {
		if got := artistFromDescription(tt.desc); got != tt.want {
			t.Errorf("artistFromDescription(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestSplitTitleArtist(t *testing.T) {
	tests := []struct {
		text       string
		wantTitle  string
		wantArtist string
		wantOK     bool
	}{
		{"Bohemian Rhapsody – Queen", "Bohemian Rhapsody", "Queen", true},
		{"Bohemian Rhapsody - Queen", "Bohemian Rhapsody", "Queen", true},
		{"Bohemian Rhapsody by Queen", "Bohemian Rhapsody", "Queen", true},
		{"Just a title", "", "", false},
		{" - Queen", "", "", false},
	}

	for _, tt := range tests {
		title, artist, ok := splitTitleArtist(tt.text)
		if title != tt.wantTitle || artist != tt.wantArtist || ok != tt.wantOK {
			t.Errorf("splitTitleArtist(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.text, title, artist, ok, tt.wantTitle, tt.wantArtist, tt.wantOK)
		}
	}
}

func TestSlugTerms(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"never-gonna-give-you-up", "never gonna give you up"},
		{"abbey-road-2019-remix", "abbey road remix"},
		{"1441164426", ""},
		{"dark_side+of-the_moon", "dark side of the moon"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := slugTerms(tt.slug); got != tt.want {
			t.Errorf("slugTerms(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}
