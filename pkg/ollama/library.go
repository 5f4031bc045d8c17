package ollama

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

// ListLibraryModels fetches the public model library page and returns its entries.
func (c *client) ListLibraryModels(ctx context.Context) ([]domain.LibraryModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.libraryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating library request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching model library: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(body))
	}

	models, err := parseLibrary(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing model library: %w", err)
	}
	return models, nil
}

func parseLibrary(r io.Reader) ([]domain.LibraryModel, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var models []domain.LibraryModel
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" && hasAttr(n, "x-test-model") {
			if m := parseLibraryItem(n); m.Name != "" {
				models = append(models, m)
			}
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)

	return models, nil
}

func parseLibraryItem(item *html.Node) domain.LibraryModel {
	var m domain.LibraryModel
	var href string

	forEachElement(item, func(n *html.Node) {
		switch {
		case n.Data == "a" && href == "":
			href = attr(n, "href")
		case hasAttr(n, "x-test-model-title"):
			m.Name = attr(n, "title")
			if m.Name == "" {
				m.Name = text(n)
			}
		case hasAttr(n, "x-test-search-response-title"):
			m.Name = text(n)
		case hasAttr(n, "x-test-capability"):
			m.Capabilities = append(m.Capabilities, text(n))
		case hasAttr(n, "x-test-size"):
			m.Sizes = append(m.Sizes, text(n))
		case hasAttr(n, "x-test-pull-count"):
			m.PullCount = text(n)
		case hasAttr(n, "x-test-tag-count"):
			m.TotalTags, _ = strconv.Atoi(text(n))
		case hasAttr(n, "x-test-updated"):
			m.LastUpdated = text(n)
		case n.Data == "p" && m.Description == "":
			m.Description = text(n)
		}
	})

	if m.Name == "" && strings.HasPrefix(href, "/library/") {
		m.Name = strings.TrimPrefix(href, "/library/")
	}
	return m
}

func forEachElement(n *html.Node, fn func(*html.Node)) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			fn(ch)
		}
		forEachElement(ch, fn)
	}
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			collect(ch)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
