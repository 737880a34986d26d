package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var playlistIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var playlistHosts = map[string]bool{
	"youtube.com":              true,
	"www.youtube.com":          true,
	"m.youtube.com":            true,
	"music.youtube.com":        true,
	"youtu.be":                 true,
	"www.youtu.be":             true,
	"youtube-nocookie.com":     true,
	"www.youtube-nocookie.com": true,
}

// ParsePlaylistURL extracts the playlist id from the list= parameter of a
// YouTube URL. Playlist pages, watch URLs, short youtu.be links and embed
// URLs are accepted, with or without a scheme.
func ParsePlaylistURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty url", ErrInvalidPlaylistURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPlaylistURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidPlaylistURL, u.Scheme)
	}
	if !playlistHosts[strings.ToLower(u.Hostname())] {
		return "", fmt.Errorf("%w: not a YouTube host: %q", ErrInvalidPlaylistURL, u.Hostname())
	}

	id := u.Query().Get("list")
	if id == "" {
		return "", fmt.Errorf("%w: missing list parameter", ErrInvalidPlaylistURL)
	}
	if !playlistIDRegex.MatchString(id) {
		return "", fmt.Errorf("%w: malformed playlist id %q", ErrInvalidPlaylistURL, id)
	}
	return id, nil
}
