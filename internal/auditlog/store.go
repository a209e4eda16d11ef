package auditlog

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// EveryoneChannel aggregates all auth attempts regardless of username.
const EveryoneChannel = "everyone"

const nonceLen = 24 // random bytes per key, hex-encoded in the key

// Result mirrors the response body produced for an auth attempt.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Entry is the stored record. Time repeats the key's timestamp so values
// are self-contained; keys are never parsed back.
type Entry struct {
	User   string `json:"user"`
	Result Result `json:"result"`
	Time   string `json:"time"`
}

// Store is an append-only log in its own LevelDB. Keys are
//
//	<channel>-<RFC3339 UTC>-<hex nonce>
//
// which sort chronologically within a channel because the timestamp is
// fixed-width; the nonce only breaks ties between same-second entries.
type Store struct {
	db *leveldb.DB
}

// Open creates the database directory if missing.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open audit log %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append writes e under a fresh composite key on channel, using e.Time as
// the key's timestamp segment.
func (s *Store) Append(channel string, e Entry) error {
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("audit nonce: %w", err)
	}
	key := channel + "-" + e.Time + "-" + hex.EncodeToString(nonce)

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}
	if err := s.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("append audit entry %s: %w", key, err)
	}
	return nil
}

// Record logs one auth attempt to both the everyone channel and the
// per-user channel. The timestamp is captured once so both copies share it.
// The two writes are independent; a crash in between can leave one channel
// without its copy, which is an accepted trade-off for this telemetry.
func (s *Store) Record(user string, res Result) error {
	e := Entry{
		User:   user,
		Result: res,
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Append(EveryoneChannel, e); err != nil {
		return err
	}
	return s.Append(user, e)
}

// QueryRange returns up to pageSize entries on channel with timestamps in
// [since, till], most recent first, and whether more remain beyond the
// page. It reads at most pageSize+1 records.
func (s *Store) QueryRange(channel string, since, till time.Time, pageSize int) ([]Entry, bool, error) {
	lo := []byte(channel + "-" + since.UTC().Format(time.RFC3339))
	// '~' sorts above every hex digit, so keys at exactly till stay in range.
	hi := []byte(channel + "-" + till.UTC().Format(time.RFC3339) + "~")

	iter := s.db.NewIterator(&util.Range{Start: lo, Limit: hi}, nil)
	defer iter.Release()

	entries := make([]Entry, 0, pageSize)
	hasNext := false
	for ok := iter.Last(); ok; ok = iter.Prev() {
		if len(entries) == pageSize {
			hasNext = true
			break
		}
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, false, fmt.Errorf("decode audit entry %s: %w", iter.Key(), err)
		}
		entries = append(entries, e)
	}
	if err := iter.Error(); err != nil {
		return nil, false, fmt.Errorf("scan channel %q: %w", channel, err)
	}
	return entries, hasNext, nil
}
