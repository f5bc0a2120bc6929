// Package memory is an in-process object store gateway. It signs nothing:
// presigned URLs point at a fake host and only record what was requested.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"orgdrive/internal/domain/models"
	"orgdrive/internal/namespace"
)

// BaseURL is the host every fake presigned URL points at
const BaseURL = "http://objects.local"

// Store records folder markers and issued URLs
type Store struct {
	mu       sync.Mutex
	markers  map[string]int
	issued   []models.PresignedURL
	writeTTL time.Duration
	readTTL  time.Duration
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore(writeTTL, readTTL time.Duration) *Store {
	return &Store{
		markers:  make(map[string]int),
		writeTTL: writeTTL,
		readTTL:  readTTL,
		now:      time.Now,
	}
}

func (s *Store) PutMarker(ctx context.Context, folderKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[namespace.MarkerKey(folderKey)]++
	return nil
}

func (s *Store) PresignWrite(ctx context.Context, key, contentType string) (*models.PresignedURL, error) {
	q := url.Values{"expires": {s.writeTTL.String()}}
	if contentType != "" {
		q.Set("content-type", contentType)
	}
	return s.presign(ctx, http.MethodPut, key, q, s.writeTTL)
}

func (s *Store) PresignRead(ctx context.Context, key string) (*models.PresignedURL, error) {
	return s.presign(ctx, http.MethodGet, key, url.Values{"expires": {s.readTTL.String()}}, s.readTTL)
}

func (s *Store) presign(ctx context.Context, method, key string, q url.Values, ttl time.Duration) (*models.PresignedURL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := &models.PresignedURL{
		URL:       fmt.Sprintf("%s/%s?%s", BaseURL, key, q.Encode()),
		Method:    method,
		ExpiresAt: s.now().Add(ttl).UTC(),
	}

	s.mu.Lock()
	s.issued = append(s.issued, *u)
	s.mu.Unlock()
	return u, nil
}

// Markers lists every marker key written, sorted
func (s *Store) Markers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.markers))
	for k := range s.markers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasMarker reports whether the folder's marker exists
func (s *Store) HasMarker(folderKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers[namespace.MarkerKey(folderKey)] > 0
}

// Issued returns every presigned URL handed out, in order
func (s *Store) Issued() []models.PresignedURL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PresignedURL(nil), s.issued...)
}

// Faulty wraps a gateway and fails selected calls. Method names are
// "PutMarker", "PresignWrite" and "PresignRead".
type Faulty struct {
	*Store
	mu    sync.Mutex
	fails map[string]error
}

// NewFaulty wraps store
func NewFaulty(store *Store) *Faulty {
	return &Faulty{Store: store, fails: make(map[string]error)}
}

// Fail makes every call to method return err until cleared with a nil err
func (f *Faulty) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fails, method)
		return
	}
	f.fails[method] = err
}

func (f *Faulty) failure(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fails[method]
}

func (f *Faulty) PutMarker(ctx context.Context, folderKey string) error {
	if err := f.failure("PutMarker"); err != nil {
		return err
	}
	return f.Store.PutMarker(ctx, folderKey)
}

func (f *Faulty) PresignWrite(ctx context.Context, key, contentType string) (*models.PresignedURL, error) {
	if err := f.failure("PresignWrite"); err != nil {
		return nil, err
	}
	return f.Store.PresignWrite(ctx, key, contentType)
}

func (f *Faulty) PresignRead(ctx context.Context, key string) (*models.PresignedURL, error) {
	if err := f.failure("PresignRead"); err != nil {
		return nil, err
	}
	return f.Store.PresignRead(ctx, key)
}
