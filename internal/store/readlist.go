package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	ReadlistFileName = "readlist.json"
	initialProgress  = "0"
)

// ReadEntry is one manga on the readlist. Progress is free text ("12",
// "vol 3 ch 20").
type ReadEntry struct {
	Title    string `json:"title"`
	Progress string `json:"progress"`
}

// ReadlistFile is the on-disk shape of readlist.json.
type ReadlistFile struct {
	Readlist []ReadEntry `json:"readlist"`
}

func migrateReadlist(f *ReadlistFile) {
	if f.Readlist == nil {
		f.Readlist = []ReadEntry{}
	}
	kept := f.Readlist[:0]
	for _, e := range f.Readlist {
		if normalizeTitle(e.Title) == "" {
			continue
		}
		if strings.TrimSpace(e.Progress) == "" {
			e.Progress = initialProgress
		}
		kept = append(kept, e)
	}
	f.Readlist = kept
}

// NewReadlistFile returns the JSON repository for dataDir/readlist.json.
func NewReadlistFile(dataDir string) *JSONFile[ReadlistFile] {
	return &JSONFile[ReadlistFile]{
		Path:    filepath.Join(dataDir, ReadlistFileName),
		Default: func() ReadlistFile { return ReadlistFile{Readlist: []ReadEntry{}} },
		Migrate: migrateReadlist,
	}
}

// Readlist manages manga entries and their reading progress.
type Readlist struct {
	repo   Repository[ReadlistFile]
	logger *zap.Logger
}

func NewReadlist(repo Repository[ReadlistFile], logger *zap.Logger) *Readlist {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Readlist{repo: repo, logger: logger}
}

func OpenReadlist(dataDir string, logger *zap.Logger) *Readlist {
	return NewReadlist(NewReadlistFile(dataDir), logger)
}

func (r *Readlist) load() (ReadlistFile, error) {
	doc, err := r.repo.Load()
	if err != nil && IsCorrupt(err) {
		r.logger.Warn("readlist unreadable, starting empty", zap.Error(err))
		return doc, nil
	}
	return doc, err
}

func (r *Readlist) Entries() ([]ReadEntry, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.Readlist, nil
}

// Add appends title with progress "0".
func (r *Readlist) Add(title string) (ReadEntry, error) {
	title = normalizeTitle(title)
	if title == "" {
		return ReadEntry{}, ErrEmptyTitle
	}

	doc, err := r.load()
	if err != nil {
		return ReadEntry{}, err
	}
	if i := indexByTitle(doc.Readlist, readTitle, title); i >= 0 {
		return doc.Readlist[i], ErrDuplicate
	}

	entry := ReadEntry{Title: title, Progress: initialProgress}
	doc.Readlist = append(doc.Readlist, entry)
	if err := r.repo.Save(doc); err != nil {
		return ReadEntry{}, fmt.Errorf("failed to save readlist: %w", err)
	}
	return entry, nil
}

// UpdateProgress replaces the progress text of an existing entry. Blank
// progress returns ErrEmptyProgress.
func (r *Readlist) UpdateProgress(title, progress string) (ReadEntry, error) {
	progress = strings.TrimSpace(progress)
	if progress == "" {
		return ReadEntry{}, ErrEmptyProgress
	}
	doc, err := r.load()
	if err != nil {
		return ReadEntry{}, err
	}
	i := indexByTitle(doc.Readlist, readTitle, title)
	if i < 0 {
		return ReadEntry{}, ErrNotFound
	}

	doc.Readlist[i].Progress = progress
	if err := r.repo.Save(doc); err != nil {
		return ReadEntry{}, fmt.Errorf("failed to save readlist: %w", err)
	}
	return doc.Readlist[i], nil
}

func (r *Readlist) Remove(title string) (ReadEntry, error) {
	doc, err := r.load()
	if err != nil {
		return ReadEntry{}, err
	}
	i := indexByTitle(doc.Readlist, readTitle, title)
	if i < 0 {
		return ReadEntry{}, ErrNotFound
	}

	removed := doc.Readlist[i]
	doc.Readlist = removeAt(doc.Readlist, i)
	if err := r.repo.Save(doc); err != nil {
		return ReadEntry{}, fmt.Errorf("failed to save readlist: %w", err)
	}
	return removed, nil
}

func readTitle(e ReadEntry) string { return e.Title }
