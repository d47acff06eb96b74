package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/artur/tunegrab/internal/logging"
	"github.com/rs/zerolog"
)

// Service downloads the audio track of one video at a time and exposes the
// progress and result of the most recent download to pollers.
//
// Every DownloadAudio call also returns its own Job, which stays accurate even
// when callers overlap downloads. The service-wide Progress and Result only
// describe whichever job wrote last.
type Service struct {
	source   VideoSource
	storage  StorageLocationProvider
	subdir   string
	recorder Recorder
	validate func(url string) bool
	now      func() time.Time
	log      zerolog.Logger

	progress atomic.Int32
	result   atomic.Pointer[Result]
	current  atomic.Pointer[Job]
}

type Option func(*Service)

func WithSubdir(subdir string) Option {
	return func(s *Service) { s.subdir = subdir }
}

// WithRecorder registers a Recorder called after every successful download.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithURLValidator rejects URLs before they reach the VideoSource.
func WithURLValidator(fn func(url string) bool) Option {
	return func(s *Service) { s.validate = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger used for jobs whose context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.log = logger }
}

func NewService(source VideoSource, storage StorageLocationProvider, opts ...Option) *Service {
	s := &Service{
		source:  source,
		storage: storage,
		subdir:  DefaultSubdir,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Progress returns the last progress value reported by any download, 0 before
// the first one.
func (s *Service) Progress() int {
	return int(s.progress.Load())
}

// Result returns the outcome of the most recently finished download, or the
// unset sentinel.
func (s *Service) Result() Result {
	if r := s.result.Load(); r != nil {
		return *r
	}
	return Result{}
}

// Current returns the most recently started job, nil before the first one.
func (s *Service) Current() *Job {
	return s.current.Load()
}

func (s *Service) State() State {
	if j := s.current.Load(); j != nil {
		return j.State()
	}
	return StateIdle
}

// DownloadAudio downloads the best audio-only stream of ref.URL and blocks until
// it finishes. Failures are never returned: they are logged and stored as a
// failed Result on both the job and the service.
func (s *Service) DownloadAudio(ctx context.Context, ref VideoReference) *Job {
	job := newJob(ref)
	s.current.Store(job)
	s.execute(ctx, job)
	return job
}

// Start is DownloadAudio without blocking: the download runs in its own
// goroutine and the returned job can be polled right away.
func (s *Service) Start(ctx context.Context, ref VideoReference) *Job {
	job := newJob(ref)
	s.current.Store(job)
	go s.execute(ctx, job)
	return job
}

func (s *Service) execute(ctx context.Context, job *Job) {
	ref := job.ref
	base := s.log
	if l := logging.FromContext(ctx); l.GetLevel() != zerolog.Disabled {
		base = *l
	}
	logger := base.With().
		Str("job", job.ID().String()).
		Str("url", ref.URL).
		Logger()
	logger.Info().Str("name", ref.DisplayName).Msg("Starting audio download")

	start := s.now()
	res := s.run(ctx, job, logger)

	if res.Succeeded() {
		job.advance(100)
		s.progress.Store(100)
		logger.Info().
			Str("path", res.Path).
			Str("title", res.Title).
			Dur("elapsed", s.now().Sub(start)).
			Msg("Download completed")
		s.record(ctx, ref, res, logger)
	} else {
		logger.Error().
			Err(res.Err).
			Str("kind", string(res.Kind)).
			Int("progress", job.Progress()).
			Msg("Download failed")
	}

	s.result.Store(&res)
	job.finish(res)
}

func (s *Service) run(ctx context.Context, job *Job, logger zerolog.Logger) Result {
	url := job.ref.URL
	if s.validate != nil && !s.validate(url) {
		return failureResult(fmt.Errorf("%w: unsupported url %q", ErrResolution, url))
	}

	video, err := s.source.Resolve(ctx, url)
	if err != nil {
		return failureResult(asKind(ErrResolution, "failed to resolve video", err))
	}

	stream, err := video.AudioOnlyStream()
	if err != nil {
		return failureResult(asKind(ErrResolution, "failed to select audio stream", err))
	}

	dir, err := s.destinationDir()
	if err != nil {
		return failureResult(asKind(ErrTransfer, "failed to prepare storage", err))
	}

	filename, err := reserveFilename(dir, job.ref.DisplayName, s.now(), stream.Extension())
	if err != nil {
		return failureResult(asKind(ErrTransfer, "failed to create output file", err))
	}
	path := filepath.Join(dir, filename)

	total := stream.TotalSize()
	logger.Debug().
		Str("title", stream.Title()).
		Int64("size", total).
		Str("path", path).
		Msg("Streaming audio")

	onChunk := func(received, remaining int64) {
		size := total
		if size <= 0 {
			if remaining < 0 {
				return
			}
			size = received + remaining
		}
		p := job.advance(percent(size, remaining))
		s.progress.Store(int32(p))
	}

	if err := stream.Download(ctx, dir, filename, onChunk); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warn().Err(rmErr).Str("path", path).Msg("Failed to remove partial file")
		}
		return failureResult(asKind(ErrTransfer, "failed to download audio", err))
	}

	return successResult(stream, path)
}

func (s *Service) destinationDir() (string, error) {
	base, err := s.storage.FilesDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, s.subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *Service) record(ctx context.Context, ref VideoReference, res Result, logger zerolog.Logger) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordSong(ctx, ExtractVideoID(ref.URL), res); err != nil {
		logger.Warn().Err(err).Msg("Failed to record song in library")
	}
}

// asKind wraps err with msg and makes sure it matches kind under errors.Is.
func asKind(kind error, msg string, err error) error {
	if errors.Is(err, ErrResolution) || errors.Is(err, ErrTransfer) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, kind, err)
}
