package images

import (
	"context"
	"errors"
)

// Image count bounds for multi-image resources.
const (
	MinImages = 3
	MaxImages = 5
)

var (
	ErrTooManyImages   = errors.New("image limit reached")
	ErrBelowMinimum    = errors.New("image minimum reached")
	ErrImageNotPresent = errors.New("image not present")
)

// Lifecycle coordinates "upload before persist" and "delete on
// failure/replacement/removal". The upload and the database write are two
// independent fallible operations; the guarantee is eventual: an uploaded
// image either ends up referenced by a persisted entity or is queued for
// deletion.
type Lifecycle struct {
	uploader Uploader
	queue    Queue
}

func NewLifecycle(uploader Uploader, queue Queue) *Lifecycle {
	return &Lifecycle{uploader: uploader, queue: queue}
}

// Uploader returns the underlying store collaborator.
func (lc *Lifecycle) Uploader() Uploader { return lc.uploader }

// Release queues every given url for deletion, typically after the owning
// entity has been removed.
func (lc *Lifecycle) Release(urls ...string) {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			kept = append(kept, u)
		}
	}
	if len(kept) > 0 {
		lc.queue.Push(Event{URLs: kept})
	}
}

// Upload uploads a single raw image. Used for single-image replacement: the
// persistence swap belongs to the caller, which must Release the new url on
// persist failure (and the old url on success).
func (lc *Lifecycle) Upload(ctx context.Context, source string) (string, error) {
	return lc.uploader.Upload(ctx, source)
}

// UploadThenPersist uploads every raw source, then invokes persist with the
// hosted urls. If an upload fails, the urls already stored by this attempt
// are queued for deletion. If persist fails, all just-uploaded urls are
// queued for deletion before the failure propagates.
func (lc *Lifecycle) UploadThenPersist(ctx context.Context, sources []string, persist func(urls []string) error) ([]string, error) {
	urls := make([]string, 0, len(sources))
	for _, src := range sources {
		u, err := lc.uploader.Upload(ctx, src)
		if err != nil {
			lc.Release(urls...) // earlier uploads of this attempt are already stored
			return nil, err
		}
		urls = append(urls, u)
	}

	if err := persist(urls); err != nil {
		lc.Release(urls...)
		return nil, err
	}
	return urls, nil
}

// AddImage uploads one raw image and appends it via persist (an atomic
// array-append update). The bound is checked against the current count
// before anything is uploaded or appended, so an over-limit request has no
// side effects. On persist failure the fresh url is queued for deletion.
func (lc *Lifecycle) AddImage(ctx context.Context, source string, currentCount int, persist func(url string) error) (string, error) {
	if currentCount+1 > MaxImages {
		return "", ErrTooManyImages
	}

	url, err := lc.uploader.Upload(ctx, source)
	if err != nil {
		return "", err
	}
	if err := persist(url); err != nil {
		lc.Release(url)
		return "", err
	}
	return url, nil
}

// RemoveImage validates that target can be removed from current and returns
// the filtered remainder. The caller persists the new array (array-set) and
// then Releases the removed url.
func (lc *Lifecycle) RemoveImage(current []string, target string) ([]string, error) {
	var present bool
	for _, u := range current {
		if u == target {
			present = true
			break
		}
	}
	if !present {
		return nil, ErrImageNotPresent
	}
	if len(current) < MinImages+1 {
		return nil, ErrBelowMinimum
	}

	remainder := make([]string, 0, len(current)-1)
	for _, u := range current {
		if u != target {
			remainder = append(remainder, u)
		}
	}
	return remainder, nil
}
