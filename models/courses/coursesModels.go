package courses

import (
	"time"

	"gorm.io/datatypes"
)

// Course is an imported playlist owned by one user. The video sequence is
// stored as a JSON document on the course row and keeps playlist order.
type Course struct {
	ID           uint                       `gorm:"primaryKey" json:"id"`
	UserID       uint                       `gorm:"not null;index" json:"user_id"`
	Title        string                     `gorm:"not null" json:"title"`
	Description  string                     `gorm:"type:text" json:"description"`
	ThumbnailURL string                     `json:"thumbnail_url"`
	PlaylistID   string                     `gorm:"not null;index" json:"playlist_id"`
	PlaylistURL  string                     `json:"playlist_url"`
	Videos       datatypes.JSONSlice[Video] `json:"videos"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// Video is one playlist entry. Position is its index in Course.Videos.
type Video struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnail_url"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	Position     int        `json:"position"`
}

// CourseSummary is the list view of a course without its videos.
type CourseSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	PlaylistID   string    `json:"playlist_id"`
	VideoCount   int       `json:"video_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasVideo reports whether videoID is part of the course.
func (c *Course) HasVideo(videoID string) bool {
	for _, v := range c.Videos {
		if v.ID == videoID {
			return true
		}
	}
	return false
}

func (c *Course) Summary() CourseSummary {
	return CourseSummary{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		ThumbnailURL: c.ThumbnailURL,
		PlaylistID:   c.PlaylistID,
		VideoCount:   len(c.Videos),
		CreatedAt:    c.CreatedAt,
	}
}
