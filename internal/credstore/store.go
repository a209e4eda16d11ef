package credstore

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/authgate/authgate/internal/auth"
)

// Store maps username -> password fingerprint in its own LevelDB. Hashing
// happens here so callers never handle fingerprints directly.
type Store struct {
	db     *leveldb.DB
	hasher auth.Hasher
}

// Open creates the database directory if missing.
func Open(path string, hasher auth.Hasher) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open credential store %s: %w", path, err)
	}
	return &Store{db: db, hasher: hasher}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Verify reports whether a record exists for user and its fingerprint
// matches. Empty fields and a missing record are plain false, not errors;
// only an I/O fault returns a non-nil error.
func (s *Store) Verify(user, pass string) (bool, error) {
	if user == "" || pass == "" {
		return false, nil
	}
	stored, err := s.db.Get([]byte(user), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup user %q: %w", user, err)
	}
	return string(stored) == s.hasher.Fingerprint(user, pass), nil
}

// SetPassword creates or overwrites the record for user.
func (s *Store) SetPassword(user, pass string) error {
	if err := s.db.Put([]byte(user), []byte(s.hasher.Fingerprint(user, pass)), nil); err != nil {
		return fmt.Errorf("store user %q: %w", user, err)
	}
	return nil
}

// Delete removes the record for user. Deleting an absent user is a no-op.
func (s *Store) Delete(user string) error {
	if err := s.db.Delete([]byte(user), nil); err != nil {
		return fmt.Errorf("delete user %q: %w", user, err)
	}
	return nil
}

// List returns every username in store key order.
func (s *Store) List() ([]string, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	var users []string
	for iter.Next() {
		users = append(users, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
