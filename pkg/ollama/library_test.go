package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

const libraryPage = `<!doctype html>
<html><body><ul role="list">
<li x-test-model class="flex">
  <a href="/library/llama3.2">
    <div x-test-model-title title="llama3.2">
      <h2><span x-test-search-response-title>llama3.2</span></h2>
      <p class="max-w-lg">Meta's Llama 3.2 goes small with 1B and 3B models.</p>
    </div>
    <div>
      <span x-test-capability>tools</span>
      <span x-test-size>1b</span>
      <span x-test-size>3b</span>
    </div>
    <p class="my-1">
      <span><span x-test-pull-count>9.4M</span> Pulls</span>
      <span><span x-test-tag-count>63</span> Tags</span>
      <span>Updated <span x-test-updated>4 months ago</span></span>
    </p>
  </a>
</li>
<li x-test-model>
  <a href="/library/llava"><p>Vision model.</p></a>
</li>
<li class="not-a-model"><a href="/library/ignored">ignored</a></li>
</ul></body></html>`

func TestParseLibrary(t *testing.T) {
	models, err := parseLibrary(strings.NewReader(libraryPage))
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, domain.LibraryModel{
		Name:         "llama3.2",
		Description:  "Meta's Llama 3.2 goes small with 1B and 3B models.",
		Capabilities: []string{"tools"},
		Sizes:        []string{"1b", "3b"},
		PullCount:    "9.4M",
		TotalTags:    63,
		LastUpdated:  "4 months ago",
	}, models[0])

	assert.Equal(t, "llava", models[1].Name)
	assert.Equal(t, "Vision model.", models[1].Description)
}

func TestListLibraryModels(t *testing.T) {
	fs, c := newFakeServer(t)
	fs.handle("GET /library", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, libraryPage)
	})

	models, err := c.ListLibraryModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, models, 2)
}

func TestListLibraryModelsUnavailable(t *testing.T) {
	_, c := newFakeServer(t)

	_, err := c.ListLibraryModels(context.Background())
	assert.ErrorContains(t, err, "unexpected status code: 404")
}
