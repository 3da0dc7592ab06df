package profile

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Store owns every user profile and its on-disk JSON mirror. Mutation is
// serialized behind one mutex: every save rewrites the whole document, so
// per-user locking would buy nothing.
type Store struct {
	path  string
	mu    sync.Mutex
	users map[string]*UserProfile
}

// NewStore loads the profile document at path. A missing file starts the
// store empty; an unreadable or malformed one is logged and also starts
// empty rather than crashing the bot.
func NewStore(path string) *Store {
	s := &Store{
		path:  path,
		users: make(map[string]*UserProfile),
	}
	if err := s.load(); err != nil {
		log.Printf("[profile] load %s failed, starting empty: %v", path, err)
		s.users = make(map[string]*UserProfile)
	}
	return s
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &s.users)
}

// save rewrites the whole document. Callers must hold mu.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return nil
}

func (s *Store) ensure(userID string) *UserProfile {
	p, ok := s.users[userID]
	if !ok {
		p = &UserProfile{}
		s.users[userID] = p
	}
	return p
}

// AppendNote classifies text, appends the resulting note to the user's
// history and persists the store. The profile is created on first contact.
func (s *Store) AppendNote(userID, text string, now time.Time) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := Note{
		Text:      text,
		Category:  Classify(text),
		Timestamp: now,
	}
	p := s.ensure(userID)
	p.History = append(p.History, note)
	return note, s.save()
}

// AddWords credits count words to the user and persists the store.
func (s *Store) AddWords(userID string, count int) error {
	if count <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensure(userID).WordCount += count
	return s.save()
}

// Get returns a copy of the user's profile. Unknown users read as an empty
// profile, matching the lazy-creation contract.
func (s *Store) Get(userID string) UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.users[userID]
	if !ok {
		return UserProfile{}
	}
	out := UserProfile{
		History:   make([]Note, len(p.History)),
		WordCount: p.WordCount,
	}
	copy(out.History, p.History)
	return out
}

// Users returns the known user ids, sorted for stable output.
func (s *Store) Users() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Path returns the location of the profile document.
func (s *Store) Path() string {
	return s.path
}

// Snapshot writes a dated copy of the current document into dir and returns
// the snapshot path. Used by the nightly backup job.
func (s *Store) Snapshot(dir string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profiles: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("user_notes-%s.json", now.Format("20060102")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
