package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"playlist-courses-backend/models/courses"
)

// NoteInput creates a note. A nil Timestamp means "at the current playback
// position".
type NoteInput struct {
	CourseID  uint   `json:"course_id"`
	VideoID   string `json:"video_id"`
	Content   string `json:"content"`
	Timestamp *int   `json:"timestamp"`
}

type NoteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db}
}

func (s *NoteService) Create(ctx context.Context, userID uint, in NoteInput) (*courses.Note, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrInvalidInput)
	}
	if in.Timestamp != nil && *in.Timestamp < 0 {
		return nil, fmt.Errorf("%w: timestamp must not be negative", ErrInvalidInput)
	}

	db := s.db.WithContext(ctx)
	if _, err := courseVideo(db, userID, in.CourseID, in.VideoID); err != nil {
		return nil, err
	}

	ts := 0
	if in.Timestamp != nil {
		ts = *in.Timestamp
	} else {
		pos, err := position(db, userID, in.CourseID, in.VideoID)
		if err != nil {
			return nil, err
		}
		ts = pos
	}

	note := &courses.Note{
		UserID:    userID,
		CourseID:  in.CourseID,
		VideoID:   in.VideoID,
		Timestamp: ts,
		Content:   in.Content,
	}
	if err := db.Create(note).Error; err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}
	return note, nil
}

// NoteFilter narrows a note listing. A zero CourseID lists notes from every
// course containing the video.
type NoteFilter struct {
	CourseID    uint
	ByTimestamp bool
}

// ListForVideo returns the user's notes on a video in insertion order, or
// ordered by timestamp when the filter asks for it.
func (s *NoteService) ListForVideo(ctx context.Context, userID uint, videoID string, f NoteFilter) ([]courses.Note, error) {
	q := s.db.WithContext(ctx).Where("user_id = ? AND video_id = ?", userID, videoID)
	if f.CourseID != 0 {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if f.ByTimestamp {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).Order("id")
	} else {
		q = q.Order("id")
	}

	notes := make([]courses.Note, 0)
	if err := q.Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Update replaces the content of a note. The timestamp never changes.
func (s *NoteService) Update(ctx context.Context, userID, noteID uint, content string) (*courses.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrInvalidInput)
	}

	db := s.db.WithContext(ctx)
	note, err := ownedNote(db, userID, noteID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(note).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("update note %d: %w", noteID, err)
	}
	return ownedNote(db, userID, noteID)
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID uint) error {
	db := s.db.WithContext(ctx)
	note, err := ownedNote(db, userID, noteID)
	if err != nil {
		return err
	}
	if err := db.Delete(note).Error; err != nil {
		return fmt.Errorf("delete note %d: %w", noteID, err)
	}
	return nil
}

func ownedNote(db *gorm.DB, userID, noteID uint) (*courses.Note, error) {
	var note courses.Note
	if err := db.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("note %d: %w", noteID, ErrNotFound)
		}
		return nil, fmt.Errorf("load note %d: %w", noteID, err)
	}
	if note.UserID != userID {
		return nil, fmt.Errorf("note %d: %w", noteID, ErrForbidden)
	}
	return &note, nil
}
