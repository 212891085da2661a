package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kitsune-cli/kitsune/internal/fileutil"
)

// Repository loads and saves one whole document.
type Repository[T any] interface {
	Load() (T, error)
	Save(T) error
}

// CorruptError reports a store file that exists but does not decode.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt store file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// IsCorrupt reports whether err comes from undecodable JSON.
func IsCorrupt(err error) bool {
	var corrupt *CorruptError
	if errors.As(err, &corrupt) {
		return true
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

// JSONFile is a Repository backed by a single JSON file that is rewritten
// wholesale on every Save.
type JSONFile[T any] struct {
	Path    string
	Default func() T
	Migrate func(*T)
}

// Load reads the file. A missing or blank file yields the default. A file
// that fails to decode yields the default together with a *CorruptError.
func (f *JSONFile[T]) Load() (T, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return f.empty(), nil
		}
		return f.empty(), fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return f.empty(), nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return f.empty(), &CorruptError{Path: f.Path, Err: err}
	}
	if f.Migrate != nil {
		f.Migrate(&value)
	}
	return value, nil
}

// Save replaces the file with value. An unchanged file is left alone.
func (f *JSONFile[T]) Save(value T) error {
	if f.Migrate != nil {
		f.Migrate(&value)
	}
	data, err := fileutil.MarshalIndent(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.Path, err)
	}
	_, err = fileutil.WriteIfChanged(f.Path, data)
	return err
}

func (f *JSONFile[T]) empty() T {
	if f.Default != nil {
		return f.Default()
	}
	var zero T
	return zero
}
