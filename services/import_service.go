package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"playlist-courses-backend/models/courses"
)

// maxPlaylistPages bounds pagination. YouTube playlists hold at most 5000
// entries, i.e. 100 pages.
const maxPlaylistPages = 200

// Titles the provider substitutes for entries that can no longer be played.
var unavailableTitles = map[string]bool{
	"Private video": true,
	"Deleted video": true,
}

// ImportService turns a playlist URL into a persisted course.
type ImportService struct {
	db       *gorm.DB
	provider MetadataProvider
}

func NewImportService(db *gorm.DB, provider MetadataProvider) *ImportService {
	return &ImportService{db: db, provider: provider}
}

// Import parses playlistURL, fetches the playlist and every page of its
// items, and stores the result as a new course owned by userID. Nothing is
// stored unless every provider call succeeds. Importing the same playlist
// twice creates two courses.
func (s *ImportService) Import(ctx context.Context, userID uint, playlistURL string) (*courses.Course, error) {
	playlistID, err := ParsePlaylistURL(playlistURL)
	if err != nil {
		return nil, err
	}

	info, err := s.provider.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	videos, skipped, err := s.fetchVideos(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		log.Printf("[import] playlist %s has no available videos, creating empty course", playlistID)
	}

	thumbnail := info.ThumbnailURL
	if thumbnail == "" {
		thumbnail = DefaultThumbnailURL
	}

	course := &courses.Course{
		UserID:       userID,
		Title:        info.Title,
		Description:  info.Description,
		ThumbnailURL: thumbnail,
		PlaylistID:   playlistID,
		PlaylistURL:  strings.TrimSpace(playlistURL),
		Videos:       videos,
	}
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return nil, fmt.Errorf("save course: %w", err)
	}

	log.Printf("[import] user %d imported playlist %s as course %d: %d videos, %d skipped",
		userID, playlistID, course.ID, len(videos), skipped)
	return course, nil
}

func (s *ImportService) fetchVideos(ctx context.Context, playlistID string) ([]courses.Video, int, error) {
	videos := make([]courses.Video, 0)
	seen := make(map[string]bool)
	skipped := 0

	pageToken := ""
	for page := 0; ; page++ {
		if page >= maxPlaylistPages {
			return nil, 0, &ProviderError{
				Op:  "playlistItems.list",
				Err: errors.New("pagination did not terminate"),
			}
		}

		resp, err := s.provider.ListPlaylistItems(ctx, playlistID, pageToken)
		if err != nil {
			return nil, 0, err
		}

		for _, item := range resp.Items {
			if !available(item) || seen[item.VideoID] {
				skipped++
				continue
			}
			seen[item.VideoID] = true
			videos = append(videos, normalizeVideo(item, len(videos)))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return videos, skipped, nil
}

func available(item PlaylistItem) bool {
	return item.VideoID != "" && item.Title != "" && !unavailableTitles[item.Title]
}

func normalizeVideo(item PlaylistItem, position int) courses.Video {
	thumbnail := item.ThumbnailURL
	if thumbnail == "" {
		thumbnail = DefaultThumbnailURL
	}
	v := courses.Video{
		ID:           item.VideoID,
		Title:        item.Title,
		Description:  item.Description,
		ThumbnailURL: thumbnail,
		Position:     position,
	}
	if !item.PublishedAt.IsZero() {
		published := item.PublishedAt
		v.PublishedAt = &published
	}
	return v
}
