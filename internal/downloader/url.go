package downloader

import "regexp"

var (
	youtubeIDPattern   = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/shorts/|music\.youtube\.com/watch\?(?:.*&)?v=)([a-zA-Z0-9_-]{11})`)
	youtubeURLPattern  = regexp.MustCompile(`^(https?://)?((www|m|music)\.)?(youtube\.com|youtu\.be)/.+`)
	youtubeLinkPattern = regexp.MustCompile(`(?:https?://)?(?:(?:www|m|music)\.)?(?:youtube\.com/watch\?(?:\S*&)?v=|youtu\.be/|youtube\.com/shorts/)[a-zA-Z0-9_-]{11}\S*`)
)

// ExtractVideoID returns the 11 character video ID found in text, or "".
func ExtractVideoID(text string) string {
	matches := youtubeIDPattern.FindStringSubmatch(text)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// ExtractVideoURL returns the first YouTube video link found in text, without
// any surrounding characters, or "".
func ExtractVideoURL(text string) string {
	return youtubeLinkPattern.FindString(text)
}

// IsYouTubeURL reports whether url looks like a YouTube link.
func IsYouTubeURL(url string) bool {
	return youtubeURLPattern.MatchString(url)
}
