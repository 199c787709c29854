package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/isdelr/users-api/internal/models"
	"github.com/moby/sys/atomicwriter"
	"github.com/rs/zerolog/log"
)

// UserStore gives serialized access to the user collection.
type UserStore interface {
	// View loads the collection and passes it to fn. Nothing is written back.
	View(fn func(users []models.User) error) error
	// Update loads the collection, passes it to fn and persists whatever fn
	// returns. If fn fails the file is left untouched.
	Update(fn func(users []models.User) ([]models.User, error)) error
}

// FileStore keeps the whole user collection in a single JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type usersFile struct {
	Users []models.User `json:"users"`
}

// New creates a FileStore for the given path. The file is not touched until Init or first use.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the users file.
func (s *FileStore) Path() string {
	return s.path
}

// Init makes sure the users file exists, seeding it with an empty collection.
func (s *FileStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &IOError{Op: "mkdir", Path: s.path, Err: err}
	}

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "stat", Path: s.path, Err: err}
	}

	log.Info().Str("path", s.path).Msg("Users file not found, seeding an empty collection")
	return s.save([]models.User{})
}

// View implements UserStore.
func (s *FileStore) View(fn func(users []models.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	return fn(users)
}

// Update implements UserStore.
func (s *FileStore) Update(fn func(users []models.User) ([]models.User, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}

	updated, err := fn(users)
	if err != nil {
		return err
	}
	return s.save(updated)
}

func (s *FileStore) load() ([]models.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: s.path, Err: err}
	}

	raw, ok := doc["users"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, &CorruptError{Path: s.path, Err: errors.New(`missing "users" array`)}
	}

	users := []models.User{}
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, &CorruptError{Path: s.path, Err: err}
	}
	for i, u := range users {
		if u.ID == "" {
			return nil, &CorruptError{Path: s.path, Err: fmt.Errorf("user at index %d has no id", i)}
		}
	}
	return users, nil
}

// save replaces the users file through a temp file and rename, so readers
// never observe a partially written file.
func (s *FileStore) save(users []models.User) error {
	if users == nil {
		users = []models.User{}
	}

	data, err := json.Marshal(usersFile{Users: users})
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	if err := atomicwriter.WriteFile(s.path, data, 0644); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
