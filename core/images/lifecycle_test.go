package images

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeStore struct {
	mu        sync.Mutex
	seq       int
	failAfter int // fail the (failAfter+1)-th upload; -1 never fails
	uploaded  []string
	deleted   []string
	deleteErr error
}

func newFakeStore() *fakeStore { return &fakeStore{failAfter: -1} }

func (s *fakeStore) Upload(_ context.Context, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter >= 0 && len(s.uploaded) >= s.failAfter {
		return "", NewUploadError(UploadUnknown, errors.New("store down"))
	}
	s.seq++
	url := fmt.Sprintf("https://img.test/%d.png", s.seq)
	s.uploaded = append(s.uploaded, url)
	return url, nil
}

func (s *fakeStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, url)
	return nil
}

// recordingQueue captures pushed events synchronously.
type recordingQueue struct {
	events []Event
}

func (q *recordingQueue) Push(evt Event) { q.events = append(q.events, evt) }

func (q *recordingQueue) urls() []string {
	var urls []string
	for _, evt := range q.events {
		urls = append(urls, evt.URLs...)
	}
	return urls
}

func TestLifecycle_UploadThenPersist(t *testing.T) {
	ctx := context.Background()
	sources := []string{"a", "b", "c"}

	t.Run("uploads then persists", func(t *testing.T) {
		store := newFakeStore()
		queue := &recordingQueue{}
		lc := NewLifecycle(store, queue)

		var persisted []string
		urls, err := lc.UploadThenPersist(ctx, sources, func(urls []string) error {
			persisted = urls
			return nil
		})
		if err != nil {
			t.Fatalf("UploadThenPersist() error = %v", err)
		}
		if len(urls) != 3 || len(persisted) != 3 {
			t.Errorf("urls = %v, persisted = %v; want 3 of each", urls, persisted)
		}
		if len(queue.events) != 0 {
			t.Errorf("queued events = %v; want none", queue.events)
		}
	})

	t.Run("upload failure releases earlier uploads", func(t *testing.T) {
		store := newFakeStore()
		store.failAfter = 2
		queue := &recordingQueue{}
		lc := NewLifecycle(store, queue)

		_, err := lc.UploadThenPersist(ctx, sources, func([]string) error {
			t.Error("persist called after a failed upload")
			return nil
		})
		var uploadErr *UploadError
		if !errors.As(err, &uploadErr) {
			t.Fatalf("UploadThenPersist() error = %v, want *UploadError", err)
		}
		if queued := queue.urls(); len(queued) != 2 {
			t.Errorf("queued urls = %v; want the 2 completed uploads", queued)
		}
	})

	t.Run("persist failure releases all uploads", func(t *testing.T) {
		store := newFakeStore()
		queue := &recordingQueue{}
		lc := NewLifecycle(store, queue)

		persistErr := errors.New("write refused")
		_, err := lc.UploadThenPersist(ctx, sources, func([]string) error { return persistErr })
		if !errors.Is(err, persistErr) {
			t.Fatalf("UploadThenPersist() error = %v, want %v", err, persistErr)
		}
		if queued := queue.urls(); len(queued) != 3 {
			t.Errorf("queued urls = %v; want all 3 uploads", queued)
		}
	})
}

func TestLifecycle_AddImage(t *testing.T) {
	ctx := context.Background()

	t.Run("at the limit nothing is uploaded", func(t *testing.T) {
		store := newFakeStore()
		queue := &recordingQueue{}
		lc := NewLifecycle(store, queue)

		_, err := lc.AddImage(ctx, "raw", MaxImages, func(string) error {
			t.Error("persist called on an over-limit add")
			return nil
		})
		if !errors.Is(err, ErrTooManyImages) {
			t.Fatalf("AddImage() error = %v, want ErrTooManyImages", err)
		}
		if len(store.uploaded) != 0 {
			t.Errorf("uploaded = %v; want none", store.uploaded)
		}
	})

	t.Run("below the limit appends", func(t *testing.T) {
		store := newFakeStore()
		queue := &recordingQueue{}
		lc := NewLifecycle(store, queue)

		var appended string
		url, err := lc.AddImage(ctx, "raw", MaxImages-1, func(u string) error {
			appended = u
			return nil
		})
		if err != nil {
			t.Fatalf("AddImage() error = %v", err)
		}
		if url == "" || url != appended {
			t.Errorf("url = %q, appended = %q; want matching hosted url", url, appended)
		}
		if len(queue.events) != 0 {
			t.Errorf("queued events = %v; want none", queue.events)
		}
	})

	t.Run("persist failure releases the fresh upload", func(t *testing.T) {
		store := newFakeStore()
		queue := &recordingQueue{}
		lc := NewLifecycle(store, queue)

		persistErr := errors.New("write refused")
		_, err := lc.AddImage(ctx, "raw", 3, func(string) error { return persistErr })
		if !errors.Is(err, persistErr) {
			t.Fatalf("AddImage() error = %v, want %v", err, persistErr)
		}
		if queued := queue.urls(); len(queued) != 1 || queued[0] != store.uploaded[0] {
			t.Errorf("queued urls = %v; want the fresh upload %v", queued, store.uploaded)
		}
	})
}

func TestLifecycle_RemoveImage(t *testing.T) {
	lc := NewLifecycle(newFakeStore(), &recordingQueue{})

	four := []string{"a", "b", "c", "d"}
	three := []string{"a", "b", "c"}

	tests := []struct {
		name    string
		current []string
		target  string
		want    []string
		wantErr error
	}{
		{name: "not present", current: four, target: "x", wantErr: ErrImageNotPresent},
		{name: "at the minimum", current: three, target: "b", wantErr: ErrBelowMinimum},
		{name: "above the minimum", current: four, target: "b", want: []string{"a", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lc.RemoveImage(tt.current, tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RemoveImage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Errorf("RemoveImage() = %v, want %v", got, tt.want)
				return
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("RemoveImage() = %v, want %v", got, tt.want)
					return
				}
			}
		})
	}
}

func TestLifecycle_Release(t *testing.T) {
	queue := &recordingQueue{}
	lc := NewLifecycle(newFakeStore(), queue)

	lc.Release("", "a", "", "b")
	if queued := queue.urls(); len(queued) != 2 {
		t.Errorf("queued urls = %v; want empty urls filtered out", queued)
	}

	lc.Release("", "")
	if len(queue.events) != 1 {
		t.Errorf("queued events = %d; want no event for all-empty urls", len(queue.events))
	}
}
