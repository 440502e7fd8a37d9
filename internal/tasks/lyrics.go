package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"golang.org/x/net/html"
)

// DefaultLyricsSelector matches the lyric containers of a rendered Genius song page.
const DefaultLyricsSelector = `div[data-lyrics-container="true"]`

// LyricBlock is the text of one lyrics container with line breaks as "\n".
type LyricBlock string

// Lines splits the block on newlines.
func (b LyricBlock) Lines() []string {
	return strings.Split(string(b), "\n")
}

// LyricsFetcher downloads a song page and extracts its lyric blocks.
type LyricsFetcher struct {
	metadata services.CatalogMetadata
	pages    services.PageStore
	selector string
}

// NewLyricsFetcher creates a fetcher. An empty selector uses [DefaultLyricsSelector].
func NewLyricsFetcher(metadata services.CatalogMetadata, pages services.PageStore, selector string) *LyricsFetcher {
	if selector == "" {
		selector = DefaultLyricsSelector
	}
	return &LyricsFetcher{metadata: metadata, pages: pages, selector: selector}
}

// Fetch resolves apiPath to its page and returns the page's lyric blocks in document order.
//
// A page without lyric containers yields an empty slice and no error.
func (f *LyricsFetcher) Fetch(ctx context.Context, apiPath string) ([]LyricBlock, error) {
	if f.metadata == nil || f.pages == nil {
		return nil, fmt.Errorf("%w: lyrics catalog not configured", shared.ErrServiceUnavailable)
	}

	path, err := f.metadata.PagePath(ctx, apiPath)
	if err != nil {
		return nil, err
	}

	doc, err := f.pages.Document(ctx, path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return ExtractBlocks(doc, f.selector)
}

// ExtractBlocks parses an HTML document and returns the text of every node matching selector.
//
// Script nodes are removed first. Each br element inside a match becomes a single "\n".
func ExtractBlocks(r io.Reader, selector string) ([]LyricBlock, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse page: %v", shared.ErrMalformedResponse, err)
	}

	doc.Find("script").Remove()

	blocks := []LyricBlock{}
	doc.Find(selector).Each(func(_ int, container *goquery.Selection) {
		container.Find("br").Each(func(_ int, br *goquery.Selection) {
			br.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
		})
		blocks = append(blocks, LyricBlock(container.Text()))
	})

	return blocks, nil
}
