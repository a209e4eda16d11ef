package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return parsed
}

func appendAt(t *testing.T, s *Store, channel, stamp string, res Result) {
	t.Helper()
	require.NoError(t, s.Append(channel, Entry{User: channel, Result: res, Time: stamp}))
}

func TestAppendThenQuery(t *testing.T) {
	s := newTestStore(t)
	appendAt(t, s, "alice", "2026-09-01T10:00:00Z", Result{Success: true})

	entries, hasNext, err := s.QueryRange("alice", time.Unix(0, 0).UTC(), time.Now().UTC(), 10)
	require.NoError(t, err)
	assert.False(t, hasNext)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].User)
	assert.True(t, entries[0].Result.Success)
	assert.Equal(t, "2026-09-01T10:00:00Z", entries[0].Time)
}

func TestQueryReverseChronological(t *testing.T) {
	s := newTestStore(t)
	appendAt(t, s, "a", "2026-09-01T10:00:00Z", Result{Error: "e1"})
	appendAt(t, s, "a", "2026-09-01T10:00:02Z", Result{Error: "e3"})
	appendAt(t, s, "a", "2026-09-01T10:00:01Z", Result{Error: "e2"})

	entries, hasNext, err := s.QueryRange("a", time.Unix(0, 0).UTC(), time.Now().UTC(), 10)
	require.NoError(t, err)
	assert.False(t, hasNext)
	require.Len(t, entries, 3)
	assert.Equal(t, "e3", entries[0].Result.Error)
	assert.Equal(t, "e2", entries[1].Result.Error)
	assert.Equal(t, "e1", entries[2].Result.Error)
}

func TestQueryPagination(t *testing.T) {
	s := newTestStore(t)
	appendAt(t, s, "a", "2026-09-01T10:00:00Z", Result{Error: "oldest"})
	appendAt(t, s, "a", "2026-09-01T10:00:01Z", Result{Error: "middle"})
	appendAt(t, s, "a", "2026-09-01T10:00:02Z", Result{Error: "newest"})

	entries, hasNext, err := s.QueryRange("a", time.Unix(0, 0).UTC(), time.Now().UTC(), 2)
	require.NoError(t, err)
	assert.True(t, hasNext)
	require.Len(t, entries, 2)
	assert.Equal(t, "newest", entries[0].Result.Error)
	assert.Equal(t, "middle", entries[1].Result.Error)

	// Exactly pageSize entries in range means no next page.
	entries, hasNext, err = s.QueryRange("a", time.Unix(0, 0).UTC(), time.Now().UTC(), 3)
	require.NoError(t, err)
	assert.False(t, hasNext)
	assert.Len(t, entries, 3)
}

func TestQueryBoundsInclusive(t *testing.T) {
	s := newTestStore(t)
	appendAt(t, s, "a", "2026-09-01T10:00:00Z", Result{Error: "before"})
	appendAt(t, s, "a", "2026-09-01T10:00:01Z", Result{Error: "inside"})
	appendAt(t, s, "a", "2026-09-01T10:00:02Z", Result{Error: "after"})

	from := ts(t, "2026-09-01T10:00:01Z")
	entries, _, err := s.QueryRange("a", from, from, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inside", entries[0].Result.Error)
}

func TestChannelsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	appendAt(t, s, "alice", "2026-09-01T10:00:00Z", Result{Success: true})
	appendAt(t, s, "bob", "2026-09-01T10:00:00Z", Result{Error: "invalid_credentials"})

	entries, _, err := s.QueryRange("alice", time.Unix(0, 0).UTC(), time.Now().UTC(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].User)
}

func TestQueryEmptyRange(t *testing.T) {
	s := newTestStore(t)

	entries, hasNext, err := s.QueryRange("nobody", time.Unix(0, 0).UTC(), time.Now().UTC(), 10)
	require.NoError(t, err)
	assert.False(t, hasNext)
	assert.Empty(t, entries)
}

func TestRecordWritesBothChannels(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Record("alice", Result{Error: "invalid_credentials"}))

	till := time.Now().UTC().Add(time.Second)
	for _, channel := range []string{EveryoneChannel, "alice"} {
		entries, _, err := s.QueryRange(channel, time.Unix(0, 0).UTC(), till, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1, channel)
		assert.Equal(t, "alice", entries[0].User)
		assert.False(t, entries[0].Result.Success)
	}
}

func TestParseBound(t *testing.T) {
	begin, err := ParseBound(BoundBegin)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(0, 0).UTC(), begin)

	before := time.Now().UTC()
	now, err := ParseBound(BoundNow)
	require.NoError(t, err)
	assert.False(t, now.Before(before))

	explicit, err := ParseBound("2026-09-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01T10:00:00Z", explicit.Format(time.RFC3339))

	_, err = ParseBound("not-a-time")
	assert.Error(t, err)
}

func TestDisplayTime(t *testing.T) {
	// Rendered in local time with an explicit offset.
	in := "2026-09-01T10:00:00Z"
	parsed, err := time.Parse(time.RFC3339, in)
	require.NoError(t, err)
	assert.Equal(t, parsed.Local().Format("2006-01-02 15:04:05 -07:00"), DisplayTime(in))

	// Unparseable input passes through.
	assert.Equal(t, "garbage", DisplayTime("garbage"))
}
