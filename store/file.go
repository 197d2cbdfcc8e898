package store

import (
	"context"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// blobExt is appended to keys to form file names
	blobExt = ".blob"
	// tmpPrefix marks files being written
	tmpPrefix = ".tmp-"
)

// File is a Store keeping one file per key in a directory
type File struct {
	dir    string
	logger *slog.Logger
}

// NewFile returns a file store rooted at dir, creating it if needed
func NewFile(dir string, logger *slog.Logger) (*File, error) {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	return &File{
		dir:    dir,
		logger: logger,
	}, nil
}

// Dir returns the directory the store writes to
func (f *File) Dir() string {
	return f.dir
}

// validateFileKey also rejects path separators, keys map to files directly
// in the store directory which is the only directory Watch follows
func validateFileKey(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}

// path returns the file path for key
func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+blobExt)
}

// Load reads the blob file for key
func (f *File) Load(_ context.Context, key string) ([]byte, error) {
	if err := validateFileKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}

	return data, nil
}

// Save writes the blob to a temporary file and renames it over the key's
// file so readers never see a partial blob
func (f *File) Save(_ context.Context, key string, blob []byte) error {
	if err := validateFileKey(key); err != nil {
		return err
	}

	dst := f.path(key)
	dir := filepath.Dir(dst)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create blob directory %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(dir, tmpPrefix+"*")

	if err != nil {
		return fmt.Errorf("create temp blob %s: %w", key, err)
	}

	// remove is a no-op once the rename succeeded
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("write blob %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename blob %s: %w", key, err)
	}

	f.logger.Debug("blob saved", "key", key, "bytes", len(blob))
	return nil
}

// Delete removes the blob file for key
func (f *File) Delete(_ context.Context, key string) error {
	if err := validateFileKey(key); err != nil {
		return err
	}

	err := os.Remove(f.path(key))

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

// Close does nothing for the file store
func (f *File) Close() error {
	return nil
}

// Watch reports the keys of blobs created, changed or removed in the store
// directory by this or another process.  The channel is closed when ctx is
// done.  Only the top level of the directory is watched
func (f *File) Watch(ctx context.Context) (<-chan string, error) {

	w, err := fsnotify.NewWatcher()

	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := w.Add(f.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", f.dir, err)
	}

	keys := make(chan string, 16)

	go func() {
		defer close(keys)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				key, ok := f.keyOf(ev.Name)

				if !ok || !ev.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
					continue
				}

				select {
				case keys <- key:
				case <-ctx.Done():
					return
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				f.logger.Warn("store watcher error", "error", err)
			}
		}
	}()

	return keys, nil
}

// keyOf maps a file path in the store directory back to its key
func (f *File) keyOf(name string) (string, bool) {
	base := filepath.Base(name)

	if strings.HasPrefix(base, tmpPrefix) || !strings.HasSuffix(base, blobExt) {
		return "", false
	}

	return strings.TrimSuffix(base, blobExt), true
}
