package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRegistry_Lookup(t *testing.T) {
	r := DefaultCommentRegistry(nil)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.reddit.com/r/golang/comments/abc", true},
		{"https://old.reddit.com/r/golang", true},
		{"https://news.ycombinator.com/item?id=1", true},
		{"https://x.com/someone/status/1", true},
		{"https://twitter.com/someone", true},
		{"https://example.com/post", false},
		{"https://notreddit.com/post", false},
		{"::bad", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IsDiscussion(tt.url))
		})
	}
}

type failingStrategy struct{}

func (failingStrategy) Comments(context.Context, string, *domain.Extraction) ([]domain.Comment, error) {
	return nil, errors.New("blocked")
}

func TestCommentRegistry_ExtractSwallowsErrors(t *testing.T) {
	r := NewCommentRegistry()
	r.Register("forum.test", failingStrategy{})

	got := r.Extract(context.Background(), "https://forum.test/t/1", &domain.Extraction{})
	assert.Empty(t, got)
}

func TestCommentRegistry_ExtractUnknownHost(t *testing.T) {
	got := NewCommentRegistry().Extract(context.Background(), "https://example.com", &domain.Extraction{Content: "- a comment long enough to count"})
	assert.Nil(t, got)
}

func TestLineStrategy(t *testing.T) {
	content := strings.Join([]string{
		"Thread title",
		"- This is the first comment and it is long enough",
		"- short",
		"> Quoted reply that also has enough characters",
		"1. Numbered reply that should be picked up too",
		"plain paragraph text that is not a comment",
	}, "\n")

	got, err := LineStrategy{}.Comments(context.Background(), "", &domain.Extraction{Content: content})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "This is the first comment and it is long enough", got[0].Text)
	assert.Equal(t, "Numbered reply that should be picked up too", got[2].Text)
}

func TestHackerNewsStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><table>
			<tr class="athing comtr"><td><a class="hnuser">pg</a><div class="commtext">First!</div></td></tr>
			<tr class="athing comtr"><td><a class="hnuser">dang</a><div class="commtext"> Please keep it civil. </div></td></tr>
			<tr class="athing comtr"><td><a class="hnuser">ghost</a><div class="commtext"></div></td></tr>
		</table></body></html>`))
	}))
	defer srv.Close()

	got, err := NewHackerNewsStrategy(srv.Client()).Comments(context.Background(), srv.URL+"/item?id=1", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Comment{Author: "pg", Text: "First!"}, got[0])
	assert.Equal(t, domain.Comment{Author: "dang", Text: "Please keep it civil."}, got[1])
}

func TestLoadCommentRegistry(t *testing.T) {
	yml := `
discussion:
  - host: lobste.rs
    strategy: lines
  - host: news.ycombinator.com
    strategy: hackernews
  - host: reddit.com
    strategy: none
`
	r, err := LoadCommentRegistry(strings.NewReader(yml), nil)
	require.NoError(t, err)

	assert.True(t, r.IsDiscussion("https://lobste.rs/s/abc"))
	assert.True(t, r.IsDiscussion("https://www.reddit.com/r/go"))
	assert.False(t, r.IsDiscussion("https://x.com/a"))

	s, ok := r.Lookup("https://reddit.com/r/go")
	require.True(t, ok)
	assert.IsType(t, NoComments{}, s)
}

func TestLoadCommentRegistry_Invalid(t *testing.T) {
	_, err := LoadCommentRegistry(strings.NewReader("discussion:\n  - host: a.test\n    strategy: magic\n"), nil)
	assert.Error(t, err)

	_, err = LoadCommentRegistry(strings.NewReader("discussion:\n  - strategy: lines\n"), nil)
	assert.Error(t, err)
}
