package courses

import "time"

// Note is a timestamped annotation on a video. IDs are assigned in insertion
// order.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	VideoID   string    `gorm:"not null;index" json:"video_id"`
	Timestamp int       `gorm:"not null;default:0" json:"timestamp"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
