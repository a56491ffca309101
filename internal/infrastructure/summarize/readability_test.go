package summarize_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataview/strata/internal/infrastructure/summarize"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
<article>
<h1>Test Article</h1>
<p>This is the first paragraph of the article body. It carries enough text
for the readability heuristics to treat it as real content rather than
boilerplate navigation.</p>
<p>A second paragraph follows with further meaningful prose so extraction
has something substantial to return to the caller.</p>
</article>
</body>
</html>`

func TestExtractor_FromRawHTML(t *testing.T) {
	e := summarize.NewExtractor()

	text, err := e.Extract(context.Background(), "https://example.com/article", articleHTML)
	require.NoError(t, err)
	assert.Contains(t, text, "first paragraph of the article body")
	assert.Contains(t, text, "second paragraph")
}

func TestExtractor_FetchesWhenNoHTMLGiven(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	e := summarize.NewExtractor()
	text, err := e.Extract(context.Background(), srv.URL+"/article", "")
	require.NoError(t, err)
	assert.Contains(t, text, "first paragraph")
}

func TestExtractor_RejectsNonHTTPSchemes(t *testing.T) {
	e := summarize.NewExtractor()

	for _, url := range []string{"about:blank", "file:///etc/passwd", "data:text/html,hi"} {
		_, err := e.Extract(context.Background(), url, "")
		assert.Error(t, err, url)
	}
}

func TestExtractor_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := summarize.NewExtractor()
	_, err := e.Extract(context.Background(), srv.URL+"/gone", "")
	assert.Error(t, err)
}
