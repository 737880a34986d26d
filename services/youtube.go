package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// DefaultThumbnailURL is used when the provider offers no thumbnail at all.
const DefaultThumbnailURL = "https://i.ytimg.com/img/no_thumbnail.jpg"

// playlistPageSize is the largest page playlistItems.list accepts.
const playlistPageSize = 50

// PlaylistInfo is the playlist-level metadata needed to build a course.
type PlaylistInfo struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
}

// PlaylistItem is one entry of a playlist page. Unavailable videos come back
// with an empty VideoID or Title, or with a placeholder title.
type PlaylistItem struct {
	VideoID      string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
}

type PlaylistPage struct {
	Items         []PlaylistItem
	NextPageToken string
}

// MetadataProvider fetches playlist metadata from an external service.
type MetadataProvider interface {
	GetPlaylist(ctx context.Context, playlistID string) (*PlaylistInfo, error)
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error)
}

// YouTubeProvider implements MetadataProvider with the YouTube Data API v3.
type YouTubeProvider struct {
	service *youtube.Service
}

// NewYouTubeProvider creates a provider authenticated with apiKey. A non-empty
// endpoint overrides the API base URL.
func NewYouTubeProvider(ctx context.Context, apiKey, endpoint string) (*YouTubeProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key required")
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &YouTubeProvider{service: service}, nil
}

func (p *YouTubeProvider) GetPlaylist(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	const op = "playlists.list"

	resp, err := p.service.Playlists.List([]string{"snippet", "contentDetails"}).
		Id(playlistID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, providerError(op, err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrPlaylistNotFound
	}

	item := resp.Items[0]
	if item.Snippet == nil {
		return nil, &ProviderError{Op: op, Err: errors.New("playlist without snippet")}
	}
	return &PlaylistInfo{
		ID:           item.Id,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
	}, nil
}

func (p *YouTubeProvider) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error) {
	const op = "playlistItems.list"

	call := p.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(playlistPageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, providerError(op, err)
	}

	page := &PlaylistPage{
		Items:         make([]PlaylistItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, it := range resp.Items {
		page.Items = append(page.Items, convertPlaylistItem(it))
	}
	return page, nil
}

func convertPlaylistItem(it *youtube.PlaylistItem) PlaylistItem {
	var item PlaylistItem
	if it == nil {
		return item
	}
	if it.ContentDetails != nil {
		item.VideoID = it.ContentDetails.VideoId
		item.PublishedAt = parseRFC3339(it.ContentDetails.VideoPublishedAt)
	}
	if it.Snippet == nil {
		return item
	}
	if item.VideoID == "" && it.Snippet.ResourceId != nil {
		item.VideoID = it.Snippet.ResourceId.VideoId
	}
	if item.PublishedAt.IsZero() {
		item.PublishedAt = parseRFC3339(it.Snippet.PublishedAt)
	}
	item.Title = it.Snippet.Title
	item.Description = it.Snippet.Description
	item.ThumbnailURL = bestThumbnail(it.Snippet.Thumbnails)
	return item
}

// bestThumbnail picks the highest resolution thumbnail offered.
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func parseRFC3339(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func providerError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &ProviderError{Op: op, StatusCode: gerr.Code, Err: err}
	}
	return &ProviderError{Op: op, Err: err}
}
