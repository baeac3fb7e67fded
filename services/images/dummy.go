package imagesvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core/images"
)

// DummyService is an in-memory Uploader for tests. It hands out fake hosted
// urls and records every upload and delete.
type DummyService struct {
	mu       sync.Mutex
	seq      int
	hosted   map[string]bool
	deleted  []string
	failNext *images.UploadError
}

var _ images.Uploader = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{hosted: make(map[string]bool)}
}

// FailNextUpload makes the next Upload call fail with the given reason.
func (svc *DummyService) FailNextUpload(reason images.UploadReason) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.failNext = images.NewUploadError(reason, errors.New("upload refused"))
}

func (svc *DummyService) Upload(ctx context.Context, source string) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.failNext != nil {
		err := svc.failNext
		svc.failNext = nil
		return "", err
	}
	if source == "" {
		return "", images.NewUploadError(images.UploadMissingFile, nil)
	}
	svc.seq++
	hostedURL := fmt.Sprintf("https://images.test/hosted/%d.png", svc.seq)
	svc.hosted[hostedURL] = true
	return hostedURL, nil
}

func (svc *DummyService) Delete(ctx context.Context, hostedURL string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if !svc.hosted[hostedURL] {
		return errors.Errorf("unknown hosted url %q", hostedURL)
	}
	delete(svc.hosted, hostedURL)
	svc.deleted = append(svc.deleted, hostedURL)
	return nil
}

// Hosted reports whether hostedURL is still stored.
func (svc *DummyService) Hosted(hostedURL string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.hosted[hostedURL]
}

// Deleted returns the urls deleted so far, in order.
func (svc *DummyService) Deleted() []string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]string, len(svc.deleted))
	copy(out, svc.deleted)
	return out
}
