package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/naturepower/internal/logging"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func openTestFile(t *testing.T) *File {
	t.Helper()
	f, err := OpenFile(t.TempDir(), logging.Nop())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// exerciseKV runs the contract every backend must satisfy.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, KeyProgress)
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report ok=false")

	require.NoError(t, kv.Set(ctx, KeyProgress, `{"xp":10}`))
	v, ok, err := kv.Get(ctx, KeyProgress)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"xp":10}`, v)

	require.NoError(t, kv.Set(ctx, KeyProgress, `{"xp":20}`))
	v, _, _ = kv.Get(ctx, KeyProgress)
	assert.Equal(t, `{"xp":20}`, v, "second Set should overwrite")

	require.NoError(t, kv.Remove(ctx, KeyProgress))
	_, ok, err = kv.Get(ctx, KeyProgress)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Remove(ctx, KeyProgress), "removing a missing key is not an error")
}

func TestMemoryContract(t *testing.T) {
	exerciseKV(t, NewMemory(0))
}

func TestFileContract(t *testing.T) {
	exerciseKV(t, openTestFile(t))
}

func TestSQLiteContract(t *testing.T) {
	exerciseKV(t, openTestSQLite(t))
}

func TestMemoryQuota(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(20)

	require.NoError(t, m.Set(ctx, "a", "0123456789"))
	assert.Equal(t, 11, m.Size())

	err := m.Set(ctx, "b", "0123456789")
	require.Error(t, err)

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "b", werr.Key)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))

	// Shrinking an existing value frees room.
	require.NoError(t, m.Set(ctx, "a", "01"))
	require.NoError(t, m.Set(ctx, "b", "0123456789"))
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory(0)
	m.Close()
	err := m.Set(context.Background(), "a", "b")
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestFileRejectsUnsafeKeys(t *testing.T) {
	f := openTestFile(t)
	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		err := f.Set(context.Background(), key, "x")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	f := openTestFile(t)
	require.NoError(t, f.Set(context.Background(), KeyJournal, "[]"))

	entries, err := os.ReadDir(f.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyJournal+fileSuffix, entries[0].Name())
}

func TestFileWatchReportsForeignWrites(t *testing.T) {
	f := openTestFile(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := f.Watch(ctx)
	require.NoError(t, err)

	// Our own write must not be reported.
	require.NoError(t, f.Set(ctx, KeyProgress, `{"xp":1}`))

	// A second process writing the same directory.
	other, err := OpenFile(f.Dir(), logging.Nop())
	require.NoError(t, err)
	require.NoError(t, other.Set(ctx, KeyJournal, `[]`))

	select {
	case c := <-changes:
		assert.Equal(t, KeyJournal, c.Key)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	cancel()
	for range changes {
	}
}

func TestSQLitePragmas(t *testing.T) {
	s := openTestSQLite(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "np.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyHighContrast, "true"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, KeyHighContrast)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestReadJSONTolerance(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	var v map[string]int
	if ReadJSON(ctx, m, "missing", &v, nil) {
		t.Error("missing key should report false")
	}

	m.Set(ctx, "bad", "{not json")
	if ReadJSON(ctx, m, "bad", &v, logging.Nop()) {
		t.Error("malformed JSON should report false")
	}

	require.NoError(t, WriteJSON(ctx, m, "good", map[string]int{"xp": 5}))
	if !ReadJSON(ctx, m, "good", &v, nil) {
		t.Fatal("valid JSON should report true")
	}
	if v["xp"] != 5 {
		t.Errorf("xp = %d, want 5", v["xp"])
	}
}

func TestRedisDecodeChange(t *testing.T) {
	r := &Redis{log: logging.Nop(), origin: "self"}

	tests := []struct {
		payload string
		wantKey string
		wantOK  bool
	}{
		{`{"origin":"other","key":"np_journal"}`, "np_journal", true},
		{`{"origin":"self","key":"np_journal"}`, "", false},
		{`{"origin":"other"}`, "", false},
		{`garbage`, "", false},
	}
	for _, tt := range tests {
		c, ok := r.decodeChange(tt.payload)
		if ok != tt.wantOK || c.Key != tt.wantKey {
			t.Errorf("decodeChange(%s) = (%q, %v), want (%q, %v)", tt.payload, c.Key, ok, tt.wantKey, tt.wantOK)
		}
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{BackendMemory, BackendFile, BackendSQLite} {
		kv, err := Open(ctx, Options{Backend: backend, Dir: dir}, nil)
		if err != nil {
			t.Fatalf("Open(%s): %v", backend, err)
		}
		kv.Close()
	}

	if _, err := Open(ctx, Options{Backend: "floppy"}, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("NATUREPOWER_DATA", "/tmp/np")
	got, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/np", got)

	t.Setenv("NATUREPOWER_DATA", "")
	t.Setenv("XDG_DATA_HOME", "/xdg")
	got, err = DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "naturepower"), got)
}
