// Package faq serves curated FAQ entries from a JSON file that can be edited
// while the service runs.
package faq

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/spf13/afero"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// listKeywords are normalized phrases that request the whole FAQ
var listKeywords = []string{"faq", "frequentlyasked", "자주묻는", "질문리스트", "질문목록"}

// Verify interface compliance
var _ driven.FAQStore = (*Store)(nil)

type entry struct {
	domain.FAQEntry
	normalizedKeywords []string
}

// Store holds the parsed FAQ file and reloads it when its modification time changes.
//
// A missing file empties the snapshot. A file that cannot be read or parsed
// leaves the previous snapshot in place.
type Store struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger

	mu            sync.RWMutex
	entries       []entry
	loaded        bool
	modTime       time.Time
	failedModTime time.Time
	missing       bool
}

// Config holds FAQ store configuration
type Config struct {
	Path   string
	Fs     afero.Fs // nil uses the OS filesystem
	Logger *slog.Logger
}

// NewStore creates a store for the file at cfg.Path. Nothing is read until first use.
func NewStore(cfg Config) *Store {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		fs:     cfg.Fs,
		path:   cfg.Path,
		logger: cfg.Logger.With("component", "faq", "path", cfg.Path),
	}
}

// Match returns the entries relevant to question.
// If the question asks for the FAQ itself, every entry is returned with FullList set.
func (s *Store) Match(question string) domain.FAQMatch {
	s.Refresh()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return domain.FAQMatch{}
	}

	norm := Normalize(question)
	for _, k := range listKeywords {
		if strings.Contains(norm, k) {
			all := make([]domain.FAQEntry, len(s.entries))
			for i, e := range s.entries {
				all[i] = e.FAQEntry
			}
			return domain.FAQMatch{Entries: all, FullList: true}
		}
	}

	var matched []domain.FAQEntry
	for _, e := range s.entries {
		for _, k := range e.normalizedKeywords {
			if k != "" && strings.Contains(norm, k) {
				matched = append(matched, e.FAQEntry)
				break
			}
		}
	}
	return domain.FAQMatch{Entries: matched}
}

// Len returns the number of entries in the current snapshot.
func (s *Store) Len() int {
	s.Refresh()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Refresh reloads the file if it appeared, disappeared or changed since the last load.
func (s *Store) Refresh() {
	info, statErr := s.fs.Stat(s.path)

	if !s.needsReload(info, statErr) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock; another caller may have reloaded already.
	if !s.needsReloadLocked(info, statErr) {
		return
	}

	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			if !s.missing {
				s.logger.Warn("faq file not found, serving no entries")
			}
			s.missing = true
			s.entries = nil
			s.loaded = true
			s.modTime = time.Time{}
			return
		}
		s.logger.Error("failed to stat faq file, keeping previous entries", "error", statErr)
		s.loaded = true
		return
	}

	entries, err := s.load()
	if err != nil {
		s.logger.Error("failed to load faq file, keeping previous entries", "error", err)
		s.failedModTime = info.ModTime()
		s.loaded = true
		return
	}

	s.entries = entries
	s.loaded = true
	s.missing = false
	s.modTime = info.ModTime()
	s.failedModTime = time.Time{}
	s.logger.Info("faq loaded", "entries", len(entries))
}

func (s *Store) needsReload(info fs.FileInfo, statErr error) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.needsReloadLocked(info, statErr)
}

func (s *Store) needsReloadLocked(info fs.FileInfo, statErr error) bool {
	if !s.loaded {
		return true
	}
	if statErr != nil {
		// Only a newly missing file changes the snapshot.
		return errors.Is(statErr, fs.ErrNotExist) && !s.missing
	}
	if s.missing {
		return true
	}
	mt := info.ModTime()
	if mt.Equal(s.modTime) {
		return false
	}
	// Same broken revision already reported.
	return !mt.Equal(s.failedModTime)
}

// load reads and validates the file. A top level that is not a list yields
// an empty snapshot; individual invalid entries are skipped.
func (s *Store) load() ([]entry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	items, ok := raw.([]any)
	if !ok {
		s.logger.Error("faq file must contain a list", "type", fmt.Sprintf("%T", raw))
		return []entry{}, nil
	}

	entries := make([]entry, 0, len(items))
	for i, item := range items {
		e, ok := parseEntry(item)
		if !ok {
			s.logger.Warn("skipping faq entry with invalid schema", "index", i)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseEntry(item any) (entry, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return entry{}, false
	}
	question, qok := obj["question"].(string)
	answer, aok := obj["answer"].(string)
	if !qok || !aok {
		return entry{}, false
	}

	e := entry{FAQEntry: domain.FAQEntry{Question: question, Answer: answer}}
	if list, ok := obj["keywords"].([]any); ok {
		for _, k := range list {
			kw, ok := k.(string)
			if !ok {
				continue
			}
			e.Keywords = append(e.Keywords, kw)
			e.normalizedKeywords = append(e.normalizedKeywords, Normalize(kw))
		}
	}
	return e, true
}

// Normalize lowercases text and drops everything except ASCII letters,
// digits and Hangul syllables, so "불용 차이?" becomes "불용차이".
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		case r >= 0xAC00 && r <= 0xD7A3:
			b.WriteRune(r)
		}
	}
	return b.String()
}
