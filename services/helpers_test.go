package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	"playlist-courses-backend/config"
	"playlist-courses-backend/models/courses"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fakeProvider serves a fixed playlist split into pages.
type fakeProvider struct {
	mu sync.Mutex

	info     *PlaylistInfo
	infoErr  error
	pages    []PlaylistPage
	failPage int // 1-based page that fails, 0 for none
	pageErr  error

	playlistCalls int
	itemCalls     int
}

func (f *fakeProvider) GetPlaylist(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playlistCalls++
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeProvider) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemCalls++

	idx := 0
	if pageToken != "" {
		if _, err := fmt.Sscanf(pageToken, "page-%d", &idx); err != nil {
			return nil, fmt.Errorf("bad page token %q", pageToken)
		}
	}
	if f.failPage == idx+1 {
		return nil, f.pageErr
	}
	if idx >= len(f.pages) {
		return &PlaylistPage{}, nil
	}
	page := f.pages[idx]
	if idx+1 < len(f.pages) {
		page.NextPageToken = fmt.Sprintf("page-%d", idx+1)
	}
	return &page, nil
}

// pagedItems builds pages of generated items with the given sizes.
func pagedItems(sizes ...int) []PlaylistPage {
	pages := make([]PlaylistPage, 0, len(sizes))
	n := 0
	for _, size := range sizes {
		var page PlaylistPage
		for i := 0; i < size; i++ {
			page.Items = append(page.Items, PlaylistItem{
				VideoID:      fmt.Sprintf("vid%03d", n),
				Title:        fmt.Sprintf("Video %d", n),
				ThumbnailURL: fmt.Sprintf("https://i.ytimg.com/vi/vid%03d/hqdefault.jpg", n),
			})
			n++
		}
		pages = append(pages, page)
	}
	return pages
}

// seedCourse stores a course with the given video ids directly.
func seedCourse(t *testing.T, db *gorm.DB, userID uint, videoIDs ...string) *courses.Course {
	t.Helper()
	course := &courses.Course{
		UserID:     userID,
		Title:      "Seeded",
		PlaylistID: "PLseed",
		Videos:     make([]courses.Video, 0, len(videoIDs)),
	}
	for i, id := range videoIDs {
		course.Videos = append(course.Videos, courses.Video{ID: id, Title: "Video " + id, Position: i})
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func intPtr(v int) *int { return &v }
