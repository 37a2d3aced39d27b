package capture

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/ramedia/lovescroll/constants"
)

// Artifact is a finished recording held in memory
type Artifact struct {
	Handle    string
	MIMEType  string
	Size      int
	CreatedAt time.Time

	data []byte
}

// Registry hands out object-URL style handles for finished recordings
type Registry struct {
	mu    sync.Mutex
	blobs map[string]*Artifact
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]*Artifact)}
}

// Create stores data and returns its artifact
func (r *Registry) Create(data []byte, mime string, now time.Time) *Artifact {
	a := &Artifact{
		Handle:    constants.BlobScheme + uuid.NewString(),
		MIMEType:  mime,
		Size:      len(data),
		CreatedAt: now,
		data:      data,
	}
	r.mu.Lock()
	r.blobs[a.Handle] = a
	r.mu.Unlock()
	return a
}

// Open returns a reader over a live handle
func (r *Registry) Open(handle string) (io.Reader, error) {
	r.mu.Lock()
	a, ok := r.blobs[handle]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("open %s: %w", handle, ErrNoArtifact)
	}
	return bytes.NewReader(a.data), nil
}

// Revoke frees a handle; revoking twice is harmless
func (r *Registry) Revoke(handle string) {
	r.mu.Lock()
	delete(r.blobs, handle)
	r.mu.Unlock()
}

// Len returns the number of live handles
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}

// FileName is the download name for a recording finished at t
func FileName(mime string, t time.Time) string {
	return constants.ArtifactPrefix + strconv.FormatInt(t.UnixMilli(), 10) + "." + Extension(mime)
}

// Save writes a live handle into dir under an exclusive lock and returns the file path
func Save(r *Registry, a *Artifact, dir string) (string, error) {
	src, err := r.Open(a.Handle)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(a.MIMEType, a.CreatedAt))

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return "", fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return "", fmt.Errorf("lock %s: already being written", path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(path + ".lock")
	}()

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
