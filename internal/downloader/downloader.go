package downloader

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrResolution is returned when a URL cannot be turned into an audio stream.
	ErrResolution = errors.New("resolution error")
	// ErrTransfer is returned when streaming the audio to disk fails.
	ErrTransfer = errors.New("transfer error")
)

// ChunkFunc is called for every chunk written during a transfer. remaining is
// negative when the size of the stream is unknown.
type ChunkFunc func(received, remaining int64)

// VideoSource resolves video URLs into handles.
type VideoSource interface {
	Resolve(ctx context.Context, url string) (VideoHandle, error)
}

// VideoHandle is a resolved video.
type VideoHandle interface {
	AudioOnlyStream() (Stream, error)
}

// Stream is a single downloadable audio format of a video.
type Stream interface {
	Title() string
	Author() string
	Duration() time.Duration
	// TotalSize may be 0 when the size is only known once the transfer starts.
	TotalSize() int64
	// Extension is the file extension without the leading dot.
	Extension() string
	Download(ctx context.Context, dir, filename string, onChunk ChunkFunc) error
}

// StorageLocationProvider returns the base writable directory.
type StorageLocationProvider interface {
	FilesDir() (string, error)
}

// Recorder is notified about every successful download.
type Recorder interface {
	RecordSong(ctx context.Context, videoID string, res Result) error
}

// VideoReference identifies what to download.
type VideoReference struct {
	URL         string
	DisplayName string
}
