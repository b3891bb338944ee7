package soundcloud

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(t *testing.T, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	old := profileURL
	profileURL = srv.URL + "/%s"
	t.Cleanup(func() { profileURL = old })
}

func TestFollowersFromHydrationJSON(t *testing.T) {
	stub(t, `<html><body><script>window.__sc_hydration = [{"data":{"followers_count": 48213}}]</script></body></html>`)

	n, err := Followers(context.Background(), "Some Artist")
	require.NoError(t, err)
	assert.Equal(t, int64(48213), n)
}

func TestFollowersFromMetaTag(t *testing.T) {
	stub(t, `<html><head><meta property="al:ios:url" content="soundcloud://users:123?followers=991"></head></html>`)

	n, err := Followers(context.Background(), "Some Artist")
	require.NoError(t, err)
	assert.Equal(t, int64(991), n)
}

func TestFollowersAbsent(t *testing.T) {
	stub(t, `<html><body>nothing here</body></html>`)

	n, err := Followers(context.Background(), "Some Artist")
	require.NoError(t, err)
	assert.Zero(t, n)
}
