package downloader

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResult_Payload(t *testing.T) {
	success := Result{
		Status:   StatusSuccess,
		Title:    "Song",
		Author:   "Artist",
		Duration: 187*time.Second + 400*time.Millisecond,
		Path:     "/data/media_cache/song_1.mp4",
	}
	failure := Result{Status: StatusFailure, Kind: KindTransfer, Err: ErrTransfer}

	tests := []struct {
		name   string
		result Result
		format PayloadFormat
		want   []string
	}{
		{"unset", Result{}, PayloadFull, []string{}},
		{"full", success, PayloadFull, []string{"Downloaded", "Song", "Artist", "187", "/data/media_cache/song_1.mp4"}},
		{"path", success, PayloadPath, []string{"Downloaded", "/data/media_cache/song_1.mp4"}},
		{"status", success, PayloadStatus, []string{"Downloaded"}},
		{"failure ignores format", failure, PayloadFull, []string{"Failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Payload(tt.format))
		})
	}
}

func TestParsePayloadFormat(t *testing.T) {
	f, ok := ParsePayloadFormat("path")
	assert.True(t, ok)
	assert.Equal(t, PayloadPath, f)

	_, ok = ParsePayloadFormat("xml")
	assert.False(t, ok)
}

func TestFailureResult_Kind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"resolution", fmt.Errorf("wrap: %w", ErrResolution), KindResolution},
		{"transfer", fmt.Errorf("wrap: %w", ErrTransfer), KindTransfer},
		{"unknown defaults to transfer", errors.New("boom"), KindTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := failureResult(tt.err)
			assert.True(t, res.Failed())
			assert.Equal(t, tt.want, res.Kind)
			assert.Equal(t, tt.err, res.Err)
		})
	}
}

func TestAsKind(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := asKind(ErrTransfer, "failed to download audio", cause)

	assert.ErrorIs(t, err, ErrTransfer)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrResolution)

	already := fmt.Errorf("%w: bad id", ErrResolution)
	err = asKind(ErrTransfer, "failed to resolve video", already)
	assert.ErrorIs(t, err, ErrResolution)
	assert.NotErrorIs(t, err, ErrTransfer)
}
