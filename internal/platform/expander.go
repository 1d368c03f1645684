package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/types"
	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultExpandTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// PlaylistItem is a single video resolved from a playlist
type PlaylistItem struct {
	VideoID string
	Title   string
}

// PlaylistFetcher lists every item of a playlist
type PlaylistFetcher interface {
	FetchPlaylist(ctx context.Context, playlistID string) ([]PlaylistItem, error)
}

// ytdlpFetcher resolves playlists through the ytdlp library
type ytdlpFetcher struct{}

// FetchPlaylist fetches all playlist items
func (ytdlpFetcher) FetchPlaylist(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	return fromLibraryItems(items), nil
}

// fromLibraryItems converts library playlist entries, keeping their order
func fromLibraryItems(items []types.PlaylistItem) []PlaylistItem {
	result := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		result = append(result, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return result
}

// PlaylistExpander turns playlist URLs into the URLs of their videos
type PlaylistExpander struct {
	fetcher PlaylistFetcher
	timeout time.Duration
}

// NewPlaylistExpander creates an expander backed by the ytdlp library
func NewPlaylistExpander() *PlaylistExpander {
	return NewPlaylistExpanderWithFetcher(ytdlpFetcher{})
}

// NewPlaylistExpanderWithFetcher creates an expander using the given fetcher
func NewPlaylistExpanderWithFetcher(fetcher PlaylistFetcher) *PlaylistExpander {
	return &PlaylistExpander{
		fetcher: fetcher,
		timeout: DefaultExpandTimeout,
	}
}

// SetTimeout sets the timeout for a single playlist lookup
func (p *PlaylistExpander) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Expand returns the video URLs behind url. A URL that is not a playlist is
// returned unchanged.
func (p *PlaylistExpander) Expand(ctx context.Context, url string) ([]string, error) {
	if !IsPlaylistURL(url) {
		return []string{url}, nil
	}

	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := p.fetcher.FetchPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("playlist %s is empty", playlistID)
	}

	urls := make([]string, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID))
	}
	return urls, nil
}

// IsPlaylistURL checks if the URL carries a playlist parameter
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistParam)
}

// ExtractPlaylistID extracts the playlist ID from the list= parameter
func ExtractPlaylistID(url string) string {
	parts := strings.SplitN(url, PlaylistParam, 2)
	if len(parts) < 2 {
		return ""
	}
	id, _, _ := strings.Cut(parts[1], ParamSeparator)
	return strings.TrimSpace(id)
}
