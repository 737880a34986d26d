package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"playlist-courses-backend/models/courses"
)

const testPlaylistURL = "https://www.youtube.com/playlist?list=PLtest"

func countCourses(t *testing.T, s *ImportService) int64 {
	t.Helper()
	var n int64
	if err := s.db.Model(&courses.Course{}).Count(&n).Error; err != nil {
		t.Fatalf("count courses: %v", err)
	}
	return n
}

func TestImportPaginates(t *testing.T) {
	provider := &fakeProvider{
		info:  &PlaylistInfo{ID: "PLtest", Title: "Go Course", Description: "Learn Go", ThumbnailURL: "https://i.ytimg.com/pl.jpg"},
		pages: pagedItems(50, 50, 7),
	}
	s := NewImportService(newTestDB(t), provider)

	course, err := s.Import(context.Background(), 1, testPlaylistURL)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(course.Videos) != 107 {
		t.Fatalf("got %d videos, want 107", len(course.Videos))
	}
	if provider.itemCalls != 3 {
		t.Errorf("playlistItems calls = %d, want 3", provider.itemCalls)
	}
	for i, v := range course.Videos {
		if v.Position != i {
			t.Fatalf("video %d has position %d", i, v.Position)
		}
	}
	if course.Videos[0].ID != "vid000" || course.Videos[106].ID != "vid106" {
		t.Errorf("videos out of playlist order: first %s, last %s", course.Videos[0].ID, course.Videos[106].ID)
	}
	if course.Title != "Go Course" || course.PlaylistID != "PLtest" || course.UserID != 1 {
		t.Errorf("unexpected course fields: %+v", course.Summary())
	}

	stored, err := NewCourseService(s.db).Get(context.Background(), 1, course.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Videos) != 107 {
		t.Errorf("stored course has %d videos, want 107", len(stored.Videos))
	}
}

func TestImportFailureOnLaterPagePersistsNothing(t *testing.T) {
	provider := &fakeProvider{
		info:     &PlaylistInfo{ID: "PLtest", Title: "Go Course"},
		pages:    pagedItems(50, 50, 7),
		failPage: 2,
		pageErr:  &ProviderError{Op: "playlistItems.list", StatusCode: 500, Err: errors.New("backend error")},
	}
	s := NewImportService(newTestDB(t), provider)

	_, err := s.Import(context.Background(), 1, testPlaylistURL)
	if !errors.Is(err, ErrExternalProvider) {
		t.Fatalf("Import error = %v, want ErrExternalProvider", err)
	}
	if n := countCourses(t, s); n != 0 {
		t.Errorf("%d courses persisted after failed import", n)
	}
}

func TestImportInvalidURLMakesNoProviderCalls(t *testing.T) {
	provider := &fakeProvider{info: &PlaylistInfo{ID: "PLtest", Title: "x"}}
	s := NewImportService(newTestDB(t), provider)

	_, err := s.Import(context.Background(), 1, "https://www.youtube.com/watch?v=abc")
	if !errors.Is(err, ErrInvalidPlaylistURL) {
		t.Fatalf("Import error = %v, want ErrInvalidPlaylistURL", err)
	}
	if provider.playlistCalls != 0 || provider.itemCalls != 0 {
		t.Errorf("provider called %d/%d times", provider.playlistCalls, provider.itemCalls)
	}
}

func TestImportPlaylistNotFound(t *testing.T) {
	provider := &fakeProvider{infoErr: ErrPlaylistNotFound}
	s := NewImportService(newTestDB(t), provider)

	_, err := s.Import(context.Background(), 1, testPlaylistURL)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Import error = %v, want ErrNotFound", err)
	}
	if provider.itemCalls != 0 {
		t.Errorf("items fetched for a missing playlist")
	}
}

func TestImportSkipsUnavailableVideos(t *testing.T) {
	provider := &fakeProvider{
		info: &PlaylistInfo{ID: "PLtest", Title: "Mixed"},
		pages: []PlaylistPage{{Items: []PlaylistItem{
			{VideoID: "a", Title: "First"},
			{VideoID: "b", Title: "Private video"},
			{VideoID: "c", Title: "Deleted video"},
			{VideoID: "", Title: "No id"},
			{VideoID: "d", Title: ""},
			{VideoID: "a", Title: "First again"},
			{VideoID: "e", Title: "Second"},
		}}},
	}
	s := NewImportService(newTestDB(t), provider)

	course, err := s.Import(context.Background(), 1, testPlaylistURL)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	var ids []string
	for _, v := range course.Videos {
		ids = append(ids, v.ID)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "e" {
		t.Fatalf("videos = %v, want [a e]", ids)
	}
	if course.Videos[1].Position != 1 {
		t.Errorf("positions not renumbered after skipping: %d", course.Videos[1].Position)
	}
}

func TestImportEmptyPlaylistCreatesEmptyCourse(t *testing.T) {
	provider := &fakeProvider{info: &PlaylistInfo{ID: "PLtest", Title: "Empty"}}
	s := NewImportService(newTestDB(t), provider)

	course, err := s.Import(context.Background(), 1, testPlaylistURL)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(course.Videos) != 0 {
		t.Errorf("got %d videos, want 0", len(course.Videos))
	}
	if n := countCourses(t, s); n != 1 {
		t.Errorf("%d courses persisted, want 1", n)
	}
}

func TestImportThumbnailFallback(t *testing.T) {
	provider := &fakeProvider{
		info: &PlaylistInfo{ID: "PLtest", Title: "No thumbs"},
		pages: []PlaylistPage{{Items: []PlaylistItem{
			{VideoID: "a", Title: "A"},
			{VideoID: "b", Title: "B", ThumbnailURL: "https://i.ytimg.com/vi/b/hq.jpg"},
		}}},
	}
	s := NewImportService(newTestDB(t), provider)

	course, err := s.Import(context.Background(), 1, testPlaylistURL)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if course.ThumbnailURL != DefaultThumbnailURL {
		t.Errorf("course thumbnail = %q, want placeholder", course.ThumbnailURL)
	}
	if course.Videos[0].ThumbnailURL != DefaultThumbnailURL {
		t.Errorf("video a thumbnail = %q, want placeholder", course.Videos[0].ThumbnailURL)
	}
	if course.Videos[1].ThumbnailURL != "https://i.ytimg.com/vi/b/hq.jpg" {
		t.Errorf("video b thumbnail = %q", course.Videos[1].ThumbnailURL)
	}
}

func TestImportTwiceCreatesTwoCourses(t *testing.T) {
	provider := &fakeProvider{
		info:  &PlaylistInfo{ID: "PLtest", Title: "Twice"},
		pages: pagedItems(3),
	}
	s := NewImportService(newTestDB(t), provider)

	first, err := s.Import(context.Background(), 1, testPlaylistURL)
	if err != nil {
		t.Fatalf("first Import: %v", err)
	}
	second, err := s.Import(context.Background(), 1, testPlaylistURL)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("both imports share course id %d", first.ID)
	}
}

func TestImportPublishedAt(t *testing.T) {
	published := time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)
	provider := &fakeProvider{
		info: &PlaylistInfo{ID: "PLtest", Title: "Dates"},
		pages: []PlaylistPage{{Items: []PlaylistItem{
			{VideoID: "dated", Title: "Dated", PublishedAt: published},
			{VideoID: "undated", Title: "Undated"},
		}}},
	}
	s := NewImportService(newTestDB(t), provider)

	course, err := s.Import(context.Background(), 1, testPlaylistURL)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if p := course.Videos[0].PublishedAt; p == nil || !p.Equal(published) {
		t.Errorf("dated video published at = %v, want %v", p, published)
	}
	if course.Videos[1].PublishedAt != nil {
		t.Errorf("undated video published at = %v, want nil", course.Videos[1].PublishedAt)
	}

	raw, err := json.Marshal(course.Videos[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "published_at") {
		t.Errorf("undated video serialized a date: %s", raw)
	}
}
