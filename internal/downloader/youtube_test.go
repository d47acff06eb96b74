package downloader

import (
	"bytes"
	"testing"

	"github.com/kkdai/youtube/v2"
)

func TestSelectAudioFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Bitrate: 500000, AudioChannels: 2},
		{ItagNo: 249, MimeType: `audio/webm; codecs="opus"`, Bitrate: 60000, AudioChannels: 2},
		{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000, AudioChannels: 2},
		{ItagNo: 139, MimeType: `audio/mp4; codecs="mp4a.40.5"`, Bitrate: 48000, AudioChannels: 2},
		{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000, AudioChannels: 2},
		{ItagNo: 599, MimeType: `audio/mp4; codecs="mp4a.40.5"`, Bitrate: 999999, AudioChannels: 0},
	}

	selected := selectAudioFormat(formats)
	if selected == nil {
		t.Fatal("expected a format to be selected")
	}
	if selected.ItagNo != 140 {
		t.Errorf("expected itag 140, got %d", selected.ItagNo)
	}
}

func TestSelectAudioFormat_FallsBackToWebm(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 249, MimeType: `audio/webm; codecs="opus"`, Bitrate: 60000, AudioChannels: 2},
		{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000, AudioChannels: 2},
	}

	selected := selectAudioFormat(formats)
	if selected == nil || selected.ItagNo != 251 {
		t.Errorf("expected itag 251, got %+v", selected)
	}
}

func TestSelectAudioFormat_NoAudio(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, AudioChannels: 2},
	}

	if selected := selectAudioFormat(formats); selected != nil {
		t.Errorf("expected no format, got itag %d", selected.ItagNo)
	}
}

func TestYouTubeVideo_AudioOnlyStream(t *testing.T) {
	video := &youtube.Video{
		Title:  "Test Video",
		Author: "Channel",
		Formats: youtube.FormatList{
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000, AudioChannels: 2, ContentLength: 3456789},
		},
	}
	v := &youtubeVideo{client: &youtube.Client{}, video: video}

	stream, err := v.AudioOnlyStream()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stream.Title() != "Test Video" || stream.Author() != "Channel" {
		t.Errorf("unexpected metadata: %q by %q", stream.Title(), stream.Author())
	}
	if stream.TotalSize() != 3456789 {
		t.Errorf("expected size 3456789, got %d", stream.TotalSize())
	}
	if stream.Extension() != "mp4" {
		t.Errorf("expected extension mp4, got %s", stream.Extension())
	}
}

func TestYouTubeVideo_AudioOnlyStreamMissing(t *testing.T) {
	v := &youtubeVideo{client: &youtube.Client{}, video: &youtube.Video{}}

	if _, err := v.AudioOnlyStream(); err == nil {
		t.Error("expected error when no audio formats exist")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mimeType string
		expected string
	}{
		{`audio/mp4; codecs="mp4a.40.2"`, "mp4"},
		{`audio/webm; codecs="opus"`, "webm"},
		{"audio/mp4", "mp4"},
		{"", "bin"},
		{"garbage", "bin"},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			result := extensionFor(tt.mimeType)
			if result != tt.expected {
				t.Errorf("extensionFor(%q) = %q, want %q", tt.mimeType, result, tt.expected)
			}
		})
	}
}

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	var remaining []int64
	pw := &progressWriter{
		w:     &buf,
		total: 10,
		onChunk: func(received, rem int64) {
			remaining = append(remaining, rem)
		},
	}

	pw.Write([]byte("abcd"))
	pw.Write([]byte("efgh"))
	pw.Write([]byte("ijklmn"))

	expected := []int64{6, 2, 0}
	if len(remaining) != len(expected) {
		t.Fatalf("expected %d callbacks, got %d", len(expected), len(remaining))
	}
	for i := range expected {
		if remaining[i] != expected[i] {
			t.Errorf("callback %d: remaining = %d, want %d", i, remaining[i], expected[i])
		}
	}
	if buf.String() != "abcdefghijklmn" {
		t.Errorf("unexpected content %q", buf.String())
	}
}

func TestProgressWriter_UnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	var received, remaining []int64

	pw := &progressWriter{
		w: &buf,
		onChunk: func(got, rem int64) {
			received = append(received, got)
			remaining = append(remaining, rem)
		},
	}

	pw.Write([]byte("abcd"))
	pw.Write([]byte("ef"))

	if len(remaining) != 2 || remaining[0] != -1 || remaining[1] != -1 {
		t.Errorf("expected remaining to be reported as unknown, got %v", remaining)
	}
	if len(received) != 2 || received[1] != 6 {
		t.Errorf("expected received to accumulate, got %v", received)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name     string
		filesize int64
		wantDesc string
	}{
		{"small", 5 * 1024 * 1024, " (~5MB)"},
		{"medium", 50 * 1024 * 1024, " (~50MB)"},
		{"tiny", 500 * 1024, " (~500KB)"},
		{"no size", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSize(tt.filesize); got != tt.wantDesc {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.filesize, got, tt.wantDesc)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		remaining int64
		expected  int
	}{
		{"start", 1000, 1000, 0},
		{"quarter", 1000, 750, 25},
		{"floors", 3, 2, 33},
		{"done", 1000, 0, 100},
		{"overshoot", 1000, -5, 100},
		{"remaining above total", 1000, 1200, 0},
		{"unknown size", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percent(tt.total, tt.remaining); got != tt.expected {
				t.Errorf("percent(%d, %d) = %d, want %d", tt.total, tt.remaining, got, tt.expected)
			}
		})
	}
}
