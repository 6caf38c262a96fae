package video

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// resultsPage builds a minimal YouTube results page embedding the given
// ytInitialData JSON.
func resultsPage(initialData string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><head>
<script>var other = 1;</script>
<script>var ytInitialData = %s;</script>
</head><body></body></html>`, initialData)
}

// searchFixture mimics the nesting the real results page uses: videoRenderer
// nodes buried inside contents arrays, with non-video entries interleaved.
const searchFixture = `{
  "contents": {
    "sectionListRenderer": {
      "contents": [
        {"itemSectionRenderer": {"contents": [
          {"adSlotRenderer": {"id": "ad"}},
          {"videoRenderer": {"videoId": "abc123", "title": {"runs": [{"text": "Mars Explained"}]}}},
          {"videoRenderer": {"videoId": "def456", "title": {"runs": [{"text": "Jupiter 101"}]}}}
        ]}}
      ]
    }
  }
}`

func newTestClient(t *testing.T, page string, status int) (*YouTubeClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/results" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)
	return NewYouTubeClient(&Config{BaseURL: srv.URL}), srv
}

func Test_Search_ExtractsVideos(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, resultsPage(searchFixture), http.StatusOK)

	results, err := c.Search(context.Background(), "mars astronomy")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	if results[0].ID != "abc123" || results[0].Title != "Mars Explained" {
		t.Errorf("first result: got %+v", results[0])
	}
}

func Test_Search_SiblingSectionsAreOrderedDeterministically(t *testing.T) {
	t.Parallel()

	// Renderers under sibling map keys: iteration order over the parent map
	// must not decide which video comes first.
	const fixture = `{
	  "contents": {
	    "a_section": {"videoRenderer": {"videoId": "first", "title": {"runs": [{"text": "Saturn"}]}}},
	    "b_section": {"videoRenderer": {"videoId": "second", "title": {"runs": [{"text": "Neptune"}]}}}
	  }
	}`

	c, _ := newTestClient(t, resultsPage(fixture), http.StatusOK)

	for i := 0; i < 50; i++ {
		results, err := c.Search(context.Background(), "planets")
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("want 2 results, got %d", len(results))
		}
		if results[0].ID != "first" || results[1].ID != "second" {
			t.Fatalf("iteration %d: got order [%s %s], want [first second]",
				i, results[0].ID, results[1].ID)
		}
	}
}

func Test_Search_NoVideosYieldsEmptyNotError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, resultsPage(`{"contents": {}}`), http.StatusOK)

	results, err := c.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("want 0 results, got %d", len(results))
	}
}

func Test_Search_MissingInitialDataIsError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, "<html><body>nope</body></html>", http.StatusOK)

	if _, err := c.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error when the page carries no ytInitialData")
	}
}

func Test_Search_Non200IsError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, "", http.StatusTooManyRequests)

	if _, err := c.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func Test_Search_MaxResultsCap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, resultsPage(searchFixture))
	}))
	t.Cleanup(srv.Close)

	c := NewYouTubeClient(&Config{BaseURL: srv.URL, MaxResults: 1})
	results, err := c.Search(context.Background(), "mars")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("want 1 result with MaxResults=1, got %d", len(results))
	}
}

func TestEmbedURL(t *testing.T) {
	t.Parallel()

	if got, want := EmbedURL("abc123"), "https://www.youtube-nocookie.com/embed/abc123"; got != want {
		t.Errorf("EmbedURL: want %q, got %q", want, got)
	}
}
