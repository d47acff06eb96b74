package downloader

import (
	"errors"
	"strconv"
	"time"
)

type Status int

const (
	StatusUnset Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Downloaded"
	case StatusFailure:
		return "Failed"
	default:
		return ""
	}
}

type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindResolution ErrorKind = "resolution"
	KindTransfer   ErrorKind = "transfer"
)

// Result is the outcome of one download. The zero value is the unset sentinel.
type Result struct {
	Status   Status
	Title    string
	Author   string
	Duration time.Duration
	Path     string
	Kind     ErrorKind
	Err      error
}

func (r Result) Succeeded() bool { return r.Status == StatusSuccess }
func (r Result) Failed() bool    { return r.Status == StatusFailure }
func (r Result) Terminal() bool  { return r.Status != StatusUnset }

func successResult(s Stream, path string) Result {
	return Result{
		Status:   StatusSuccess,
		Title:    s.Title(),
		Author:   s.Author(),
		Duration: s.Duration(),
		Path:     path,
	}
}

func failureResult(err error) Result {
	return Result{
		Status: StatusFailure,
		Kind:   kindOf(err),
		Err:    err,
	}
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrResolution):
		return KindResolution
	case errors.Is(err, ErrTransfer):
		return KindTransfer
	default:
		return KindTransfer
	}
}

// PayloadFormat selects how much of a successful result is reported to callers.
type PayloadFormat string

const (
	PayloadFull   PayloadFormat = "full"
	PayloadPath   PayloadFormat = "path"
	PayloadStatus PayloadFormat = "status"
)

func ParsePayloadFormat(s string) (PayloadFormat, bool) {
	switch f := PayloadFormat(s); f {
	case PayloadFull, PayloadPath, PayloadStatus:
		return f, true
	default:
		return "", false
	}
}

// Payload flattens the result into the list shape polled by host applications.
func (r Result) Payload(format PayloadFormat) []string {
	switch r.Status {
	case StatusUnset:
		return []string{}
	case StatusFailure:
		return []string{r.Status.String()}
	}

	switch format {
	case PayloadStatus:
		return []string{r.Status.String()}
	case PayloadPath:
		return []string{r.Status.String(), r.Path}
	default:
		return []string{
			r.Status.String(),
			r.Title,
			r.Author,
			strconv.Itoa(int(r.Duration / time.Second)),
			r.Path,
		}
	}
}
