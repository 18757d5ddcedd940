package article

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const articleHTML = `<!doctype html>
<html><head>
<title>  Zoning vote | Example News </title>
<meta property="og:title" content="City Council Approves New Zoning Law">
<meta property="og:description" content="The council voted 7-2 to allow
   mid-rise housing near transit.">
<meta property="og:site_name" content="Example News">
</head><body><p>Body text</p></body></html>`

func TestParse_OpenGraphWins(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		t.Fatalf("NewDocumentFromReader() error = %v", err)
	}

	a := Parse(doc)
	if a.Title != "City Council Approves New Zoning Law" {
		t.Errorf("Title = %q", a.Title)
	}
	if a.Description != "The council voted 7-2 to allow mid-rise housing near transit." {
		t.Errorf("Description = %q", a.Description)
	}
	if a.SiteName != "Example News" {
		t.Errorf("SiteName = %q", a.SiteName)
	}
}

func TestParse_Fallbacks(t *testing.T) {
	html := `<html><head><title>Plain   Title</title>
<meta name="description" content="Plain description"></head></html>`
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(html))

	a := Parse(doc)
	if a.Title != "Plain Title" {
		t.Errorf("Title = %q, want %q", a.Title, "Plain Title")
	}
	if a.Description != "Plain description" {
		t.Errorf("Description = %q", a.Description)
	}
	if a.SiteName != "" {
		t.Errorf("SiteName = %q, want empty", a.SiteName)
	}
}

func TestArticle_Empty(t *testing.T) {
	if !(Article{URL: "https://x"}).Empty() {
		t.Error("article with only a URL should be empty")
	}
	if (Article{Title: "t"}).Empty() {
		t.Error("article with a title should not be empty")
	}
}

func TestFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := NewFetcher(Config{UserAgent: "doxa-test"})
	a, err := f.Fetch(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if a.URL != srv.URL+"/article" {
		t.Errorf("URL = %q", a.URL)
	}
	if a.Title != "City Council Approves New Zoning Law" {
		t.Errorf("Title = %q", a.Title)
	}
	if gotUA != "doxa-test" {
		t.Errorf("User-Agent = %q, want doxa-test", gotUA)
	}
}

func TestFetcher_Fetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(Config{}).Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestFetcher_Fetch_InvalidURL(t *testing.T) {
	_, err := NewFetcher(Config{}).Fetch(context.Background(), "://not a url")
	if err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestFetcher_Fetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFetcher(Config{}).Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
