package downloader

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
)

// YouTubeSource is a VideoSource backed by github.com/kkdai/youtube.
type YouTubeSource struct {
	client *youtube.Client
}

// NewYouTubeSource creates a source using httpClient, or the default client if nil.
func NewYouTubeSource(httpClient *http.Client) *YouTubeSource {
	return &YouTubeSource{
		client: &youtube.Client{HTTPClient: httpClient},
	}
}

func (s *YouTubeSource) Resolve(ctx context.Context, url string) (VideoHandle, error) {
	video, err := s.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get video info: %w", ErrResolution, err)
	}
	return &youtubeVideo{client: s.client, video: video}, nil
}

type youtubeVideo struct {
	client *youtube.Client
	video  *youtube.Video
}

func (v *youtubeVideo) AudioOnlyStream() (Stream, error) {
	format := selectAudioFormat(v.video.Formats.WithAudioChannels())
	if format == nil {
		return nil, fmt.Errorf("%w: no audio-only formats found", ErrResolution)
	}
	return &youtubeStream{client: v.client, video: v.video, format: format}, nil
}

// selectAudioFormat picks the audio-only format with the highest bitrate,
// preferring mp4 containers over the rest.
func selectAudioFormat(formats youtube.FormatList) *youtube.Format {
	var selected *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") || f.AudioChannels == 0 {
			continue
		}
		if selected == nil {
			selected = f
			continue
		}

		fMP4 := strings.HasPrefix(f.MimeType, "audio/mp4")
		selMP4 := strings.HasPrefix(selected.MimeType, "audio/mp4")
		switch {
		case fMP4 && !selMP4:
			selected = f
		case fMP4 == selMP4 && f.Bitrate > selected.Bitrate:
			selected = f
		}
	}
	return selected
}

type youtubeStream struct {
	client *youtube.Client
	video  *youtube.Video
	format *youtube.Format
}

func (s *youtubeStream) Title() string           { return s.video.Title }
func (s *youtubeStream) Author() string          { return s.video.Author }
func (s *youtubeStream) Duration() time.Duration { return s.video.Duration }
func (s *youtubeStream) TotalSize() int64        { return s.format.ContentLength }
func (s *youtubeStream) Extension() string       { return extensionFor(s.format.MimeType) }

func (s *youtubeStream) Download(ctx context.Context, dir, filename string, onChunk ChunkFunc) error {
	stream, size, err := s.client.GetStreamContext(ctx, s.video, s.format)
	if err != nil {
		return fmt.Errorf("%w: failed to get stream: %w", ErrTransfer, err)
	}
	defer stream.Close()

	total := s.format.ContentLength
	if total <= 0 {
		total = size
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %w", ErrTransfer, err)
	}
	file, err := os.OpenFile(filepath.Join(dir, filename), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: failed to create file: %w", ErrTransfer, err)
	}
	defer file.Close()

	pw := &progressWriter{w: file, total: total, onChunk: onChunk}
	if _, err := io.Copy(pw, stream); err != nil {
		return fmt.Errorf("%w: failed to download audio: %w", ErrTransfer, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: failed to flush file: %w", ErrTransfer, err)
	}
	return nil
}

// progressWriter reports every write as a chunk.
type progressWriter struct {
	w        io.Writer
	total    int64
	received int64
	onChunk  ChunkFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.received += int64(n)
	if p.onChunk != nil && n > 0 {
		remaining := int64(-1)
		if p.total > 0 {
			remaining = max(p.total-p.received, 0)
		}
		p.onChunk(p.received, remaining)
	}
	return n, err
}

// extensionFor maps "audio/mp4; codecs=..." to "mp4".
func extensionFor(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = mimeType
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok || sub == "" {
		return "bin"
	}
	return sub
}

// FormatSize renders a byte count the way status messages show it, e.g. " (~5MB)".
func FormatSize(size int64) string {
	if size <= 0 {
		return ""
	}
	if sizeMB := size / (1024 * 1024); sizeMB > 0 {
		return fmt.Sprintf(" (~%dMB)", sizeMB)
	}
	return fmt.Sprintf(" (~%dKB)", size/1024)
}
