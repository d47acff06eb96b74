package downloader

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type State int32

const (
	StateIdle State = iota
	StateDownloading
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDownloading:
		return "downloading"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Job is the handle of a single DownloadAudio call. All getters are safe to
// call from any goroutine while the download runs.
type Job struct {
	id       uuid.UUID
	ref      VideoReference
	progress atomic.Int32
	state    atomic.Int32
	result   atomic.Pointer[Result]

	finishOnce sync.Once
	done       chan struct{}
}

func newJob(ref VideoReference) *Job {
	j := &Job{
		id:   uuid.New(),
		ref:  ref,
		done: make(chan struct{}),
	}
	j.state.Store(int32(StateDownloading))
	return j
}

func (j *Job) ID() uuid.UUID             { return j.id }
func (j *Job) Reference() VideoReference { return j.ref }
func (j *Job) Progress() int             { return int(j.progress.Load()) }
func (j *Job) State() State              { return State(j.state.Load()) }

// Done is closed once the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// Result returns the unset sentinel until the job finishes.
func (j *Job) Result() Result {
	if r := j.result.Load(); r != nil {
		return *r
	}
	return Result{}
}

// advance raises the job progress to p and reports the value now stored.
// Progress never goes backwards within a job.
func (j *Job) advance(p int) int {
	for {
		cur := j.progress.Load()
		if int32(p) <= cur {
			return int(cur)
		}
		if j.progress.CompareAndSwap(cur, int32(p)) {
			return p
		}
	}
}

func (j *Job) finish(res Result) {
	j.finishOnce.Do(func() {
		j.result.Store(&res)
		if res.Succeeded() {
			j.state.Store(int32(StateCompleted))
		} else {
			j.state.Store(int32(StateFailed))
		}
		close(j.done)
	})
}

// percent computes floor(100 * (total - remaining) / total) clamped to [0,100].
// Streams of unknown size stay at 0 until the download succeeds.
func percent(total, remaining int64) int {
	if total <= 0 {
		return 0
	}
	done := total - remaining
	if done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return int(done * 100 / total)
}
