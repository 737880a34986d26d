package courses

import "time"

// Progress is the watch state of one video for one user inside one course.
// The course id is part of the key so two imports of the same playlist are
// tracked independently.
type Progress struct {
	UserID       uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CourseID     uint      `gorm:"primaryKey;autoIncrement:false;index" json:"course_id"`
	VideoID      string    `gorm:"primaryKey" json:"video_id"`
	LastPosition int       `gorm:"not null;default:0" json:"last_position"`
	Watched      bool      `gorm:"not null;default:false" json:"watched"`
	WatchTime    int       `gorm:"not null;default:0" json:"watch_time"`
	UpdatedAt    time.Time `json:"updated_at"`
}
