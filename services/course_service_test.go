package services

import (
	"context"
	"errors"
	"testing"

	"playlist-courses-backend/models/courses"
)

func TestCourseServiceListIsScopedToUser(t *testing.T) {
	db := newTestDB(t)
	seedCourse(t, db, 1, "a", "b")
	seedCourse(t, db, 2, "c")
	seedCourse(t, db, 1)

	list, err := NewCourseService(db).List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d courses, want 2", len(list))
	}
	if list[0].VideoCount != 2 || list[1].VideoCount != 0 {
		t.Errorf("video counts = %d, %d", list[0].VideoCount, list[1].VideoCount)
	}
}

func TestCourseServiceGetOwnership(t *testing.T) {
	db := newTestDB(t)
	course := seedCourse(t, db, 1, "a")
	s := NewCourseService(db)

	if _, err := s.Get(context.Background(), 2, course.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("other user: error = %v, want ErrForbidden", err)
	}
	if _, err := s.Get(context.Background(), 1, course.ID+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing course: error = %v, want ErrNotFound", err)
	}
	got, err := s.Get(context.Background(), 1, course.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Videos) != 1 || got.Videos[0].ID != "a" {
		t.Errorf("videos = %+v", got.Videos)
	}
}

func TestCourseServiceUpdate(t *testing.T) {
	db := newTestDB(t)
	course := seedCourse(t, db, 1, "a")
	s := NewCourseService(db)
	ctx := context.Background()

	title, desc := "Renamed", "New description"
	updated, err := s.Update(ctx, 1, course.ID, CourseUpdate{Title: &title, Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.Description != desc {
		t.Errorf("updated = %q / %q", updated.Title, updated.Description)
	}
	if len(updated.Videos) != 1 {
		t.Errorf("update dropped videos: %+v", updated.Videos)
	}

	blank := "   "
	if _, err := s.Update(ctx, 1, course.ID, CourseUpdate{Title: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank title: error = %v, want ErrInvalidInput", err)
	}
	if _, err := s.Update(ctx, 2, course.ID, CourseUpdate{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Errorf("other user: error = %v, want ErrForbidden", err)
	}
}

func TestCourseServiceDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course := seedCourse(t, db, 1, "a", "b")
	other := seedCourse(t, db, 1, "a")

	progress := NewProgressService(db)
	notes := NewNoteService(db)
	for _, c := range []*courses.Course{course, other} {
		if _, err := progress.Record(ctx, 1, ProgressReport{CourseID: c.ID, VideoID: "a", LastPosition: 30}); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if _, err := notes.Create(ctx, 1, NoteInput{CourseID: c.ID, VideoID: "a", Content: "note"}); err != nil {
			t.Fatalf("Create note: %v", err)
		}
	}

	s := NewCourseService(db)
	if err := s.Delete(ctx, 2, course.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user delete: error = %v, want ErrForbidden", err)
	}
	if err := s.Delete(ctx, 1, course.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.Get(ctx, 1, course.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted course still readable: %v", err)
	}

	var progressRows, noteRows int64
	db.Model(&courses.Progress{}).Where("course_id = ?", course.ID).Count(&progressRows)
	db.Model(&courses.Note{}).Where("course_id = ?", course.ID).Count(&noteRows)
	if progressRows != 0 || noteRows != 0 {
		t.Errorf("left %d progress rows and %d notes behind", progressRows, noteRows)
	}

	remaining, err := progress.ForCourse(ctx, 1, other.ID)
	if err != nil {
		t.Fatalf("ForCourse: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("other course lost its progress: %v", remaining)
	}
	if err := s.Delete(ctx, 1, course.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: error = %v, want ErrNotFound", err)
	}
}
