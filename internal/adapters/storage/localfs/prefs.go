// Package localfs persists the visitor language preference as a tiny
// JSON document on disk, one value under one key.
package localfs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

type prefDoc struct {
	Lang string `json:"lang"`
}

// PrefStore is a file-backed preference store. A missing or corrupt file
// is not an error condition; reads report it and callers fall back to
// the primary language.
type PrefStore struct {
	path string
	mu   sync.Mutex
}

func New(path string) *PrefStore {
	return &PrefStore{path: path}
}

func (s *PrefStore) Language() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	var doc prefDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	return doc.Lang, nil
}

func (s *PrefStore) SetLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(prefDoc{Lang: lang})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
