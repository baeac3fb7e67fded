package images

import (
	"context"

	"github.com/aimelive/mcsa-awards/core"
)

// UploadReason classifies why the image store rejected an upload.
type UploadReason int

const (
	UploadUnknown UploadReason = iota
	UploadBadFormat
	UploadMissingFile
	UploadNotFound
	UploadUnauthorized
)

var uploadReasonTexts = map[UploadReason]string{
	UploadBadFormat:    "Invalid image file, unable to upload",
	UploadMissingFile:  "No such file or directory",
	UploadNotFound:     "Resource not found, unable to upload image",
	UploadUnauthorized: "Unauthorized action, unable to upload image",
	UploadUnknown:      "Unknown error while uploading image, please try again.",
}

// UploadError reports a rejected or failed upload with a coarse reason code.
type UploadError struct {
	Reason UploadReason
	Err    error
}

func (err *UploadError) Error() string { return uploadReasonTexts[err.Reason] }
func (err *UploadError) Unwrap() error { return err.Err }

func NewUploadError(reason UploadReason, cause error) *UploadError {
	return &UploadError{Reason: reason, Err: cause}
}

// Uploader is the external image store collaborator. Upload accepts an image
// source (a url or data-uri) and returns a stable hosted url; Delete removes
// the hosted object behind a previously returned url.
type Uploader interface {
	Upload(ctx context.Context, source string) (string, error)
	Delete(ctx context.Context, hostedURL string) error
}

// Event is an ephemeral instruction to delete hosted urls from external
// storage. Events are never persisted and consumed at most once.
type Event struct {
	URLs []string
}

// Queue decouples cleanup emission from consumption. Push must never block
// the request path.
type Queue interface {
	Push(evt Event)
}

// ChannelQueue is a buffered in-process Queue drained by a Consumer.
// A full buffer drops the event instead of blocking the caller.
type ChannelQueue struct {
	ch     chan Event
	logger core.Logger
}

func NewChannelQueue(size int, logger core.Logger) *ChannelQueue {
	return &ChannelQueue{ch: make(chan Event, size), logger: logger}
}

var _ Queue = (*ChannelQueue)(nil)

func (q *ChannelQueue) Push(evt Event) {
	if len(evt.URLs) == 0 {
		return
	}
	select {
	case q.ch <- evt:
	default:
		q.logger.Warn("image cleanup queue full, dropping event", evt.URLs)
	}
}

// Events exposes the drain side of the queue to the Consumer.
func (q *ChannelQueue) Events() <-chan Event { return q.ch }
