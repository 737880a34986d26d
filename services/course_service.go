package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"playlist-courses-backend/models/courses"
)

// CourseUpdate carries the editable course fields. Nil fields are left as
// they are.
type CourseUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

func (s *CourseService) List(ctx context.Context, userID uint) ([]courses.CourseSummary, error) {
	var list []courses.Course
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	summaries := make([]courses.CourseSummary, 0, len(list))
	for i := range list {
		summaries = append(summaries, list[i].Summary())
	}
	return summaries, nil
}

func (s *CourseService) Get(ctx context.Context, userID, courseID uint) (*courses.Course, error) {
	return ownedCourse(s.db.WithContext(ctx), userID, courseID)
}

func (s *CourseService) Update(ctx context.Context, userID, courseID uint, upd CourseUpdate) (*courses.Course, error) {
	course, err := ownedCourse(s.db.WithContext(ctx), userID, courseID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		changes["title"] = title
	}
	if upd.Description != nil {
		changes["description"] = *upd.Description
	}
	if len(changes) == 0 {
		return course, nil
	}

	if err := s.db.WithContext(ctx).Model(course).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update course %d: %w", courseID, err)
	}
	return ownedCourse(s.db.WithContext(ctx), userID, courseID)
}

// Delete removes the course together with every progress row and note that
// refers to it, in one transaction.
func (s *CourseService) Delete(ctx context.Context, userID, courseID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := ownedCourse(tx, userID, courseID)
		if err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&courses.Progress{}).Error; err != nil {
			return fmt.Errorf("delete progress of course %d: %w", course.ID, err)
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&courses.Note{}).Error; err != nil {
			return fmt.Errorf("delete notes of course %d: %w", course.ID, err)
		}
		if err := tx.Delete(course).Error; err != nil {
			return fmt.Errorf("delete course %d: %w", course.ID, err)
		}
		return nil
	})
}

// ownedCourse loads a course and checks that userID owns it.
func ownedCourse(db *gorm.DB, userID, courseID uint) (*courses.Course, error) {
	var course courses.Course
	if err := db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
		}
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	if course.UserID != userID {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrForbidden)
	}
	return &course, nil
}

// courseVideo checks that videoID is part of a course owned by userID.
func courseVideo(db *gorm.DB, userID, courseID uint, videoID string) (*courses.Course, error) {
	course, err := ownedCourse(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !course.HasVideo(videoID) {
		return nil, fmt.Errorf("video %q in course %d: %w", videoID, courseID, ErrNotFound)
	}
	return course, nil
}
