package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"playlist-courses-backend/models/courses"
)

// ProgressReport is a playback position report from the player.
type ProgressReport struct {
	CourseID     uint   `json:"course_id"`
	VideoID      string `json:"video_id"`
	LastPosition int    `json:"last_position"`
	Watched      bool   `json:"watched"`
	WatchTime    int    `json:"watch_time"`
}

// ProgressService stores watch progress. Reports are not ordered: the last
// write wins, even if it moves the position backwards.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

func (s *ProgressService) Record(ctx context.Context, userID uint, r ProgressReport) (*courses.Progress, error) {
	if r.VideoID == "" {
		return nil, fmt.Errorf("%w: video_id is required", ErrInvalidInput)
	}
	if r.LastPosition < 0 || r.WatchTime < 0 {
		return nil, fmt.Errorf("%w: positions must not be negative", ErrInvalidInput)
	}

	db := s.db.WithContext(ctx)
	if _, err := courseVideo(db, userID, r.CourseID, r.VideoID); err != nil {
		return nil, err
	}

	p := &courses.Progress{
		UserID:       userID,
		CourseID:     r.CourseID,
		VideoID:      r.VideoID,
		LastPosition: r.LastPosition,
		Watched:      r.Watched,
		WatchTime:    r.WatchTime,
		UpdatedAt:    time.Now().UTC(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_position", "watched", "watch_time", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}

// ForCourse returns progress keyed by video id. Videos without any report are
// absent from the map.
func (s *ProgressService) ForCourse(ctx context.Context, userID, courseID uint) (map[string]courses.Progress, error) {
	db := s.db.WithContext(ctx)
	if _, err := ownedCourse(db, userID, courseID); err != nil {
		return nil, err
	}

	var rows []courses.Progress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	result := make(map[string]courses.Progress, len(rows))
	for _, p := range rows {
		result[p.VideoID] = p
	}
	return result, nil
}

// position returns the stored playback position, 0 if there is none.
func position(db *gorm.DB, userID, courseID uint, videoID string) (int, error) {
	var p courses.Progress
	err := db.Where("user_id = ? AND course_id = ? AND video_id = ?", userID, courseID, videoID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load progress: %w", err)
	}
	return p.LastPosition, nil
}
