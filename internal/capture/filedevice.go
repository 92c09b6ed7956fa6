package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	_ "image/jpeg"
	_ "image/png"
)

// FileDevice is a Device backed by still-image files, cycled in order. It is
// intended for tests and dev environments where no camera exists.
type FileDevice struct {
	paths []string
}

func NewFileDevice(paths ...string) *FileDevice {
	return &FileDevice{paths: paths}
}

func (d *FileDevice) Open(_ context.Context) (Stream, error) {
	if len(d.paths) == 0 {
		return nil, errors.New("no frame files configured")
	}
	return &fileStream{paths: d.paths}, nil
}

type fileStream struct {
	mu     sync.Mutex
	paths  []string
	next   int
	closed bool
}

func (s *fileStream) Frame(_ context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("stream closed")
	}
	path := s.paths[s.next%len(s.paths)]
	s.next++

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

func (s *fileStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
