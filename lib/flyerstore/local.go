package flyerstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Local stores flyers as gzip files under a directory.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Save(_ context.Context, filename string, content []byte) error {
	compressed, err := compress(content)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(l.dir, filename+".gz"), compressed, 0666)
}

func (l *Local) Exists(_ context.Context, prefix string) (bool, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (l *Local) List(_ context.Context) ([]Entry, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{
			Filename:     entry.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
			Storage:      "local",
			Path:         filepath.Join(l.dir, entry.Name()),
		})
	}
	return out, nil
}
