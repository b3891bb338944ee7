package bandcamp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	for name, want := range map[string]string{
		"Sigur Rós":     "sigurros",
		"AC/DC":         "acdc",
		"Mötley Crüe":   "motleycrue",
		"The Beatles":   "thebeatles",
		"múm":           "mum",
		"A$AP Rocky":    "aaprocky",
		"Café Tacvba!!": "cafetacvba",
	} {
		assert.Equal(t, want, Slug(name), "Slug(%q)", name)
	}
}

func page(image string, extra string) string {
	head := ""
	if image != "" {
		head = fmt.Sprintf(`<meta property="og:image" content="%s">`, image)
	}
	return fmt.Sprintf(`<html><head>%s</head><body>%s</body></html>`, head, extra)
}

func stub(t *testing.T, pages map[string]string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	old := pageURL
	pageURL = srv.URL + "/%s"
	t.Cleanup(func() { pageURL = old })
}

func TestImage(t *testing.T) {
	stub(t, map[string]string{
		"/sigurros": page("https://f4.example/img_0.jpg", ""),
	})

	cand := Image(context.Background(), "Sigur Rós")
	assert.Equal(t, "bandcamp", cand.Source)
	assert.Equal(t, "https://f4.example/img_0.jpg", cand.URL)
	assert.Equal(t, "Sigur Rós", cand.Invoked.Name)
}

func TestImageSecondVariantDropsI(t *testing.T) {
	// "radiohead" misses, "radohead" (no "i") hits.
	stub(t, map[string]string{
		"/radohead": page("https://f4.example/img_1.jpg", ""),
	})

	cand := Image(context.Background(), "Radiohead")
	assert.Equal(t, "https://f4.example/img_1.jpg", cand.URL)
}

func TestImageRejectsShortNames(t *testing.T) {
	stub(t, map[string]string{
		"/abc": page("https://f4.example/img_2.jpg", ""),
	})

	cand := Image(context.Background(), "abc")
	assert.Empty(t, cand.URL)
}

func TestImageRejectsPlaceholder(t *testing.T) {
	stub(t, map[string]string{
		"/someband": page("https://f4.example/bio-placeholder.png", `<img src="bio-placeholder.png">`),
	})

	cand := Image(context.Background(), "someband")
	assert.Empty(t, cand.URL)
}

func TestImageMiss(t *testing.T) {
	stub(t, map[string]string{})

	cand := Image(context.Background(), "someband")
	assert.Empty(t, cand.URL)
	assert.NoError(t, cand.Err)
}
