package persistence

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/luxe-storefront/pkg/config"
	"github.com/angelmondragon/luxe-storefront/pkg/db"
	"github.com/angelmondragon/luxe-storefront/pkg/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, found, err := b.Get(ctx, "luxe_cart")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Set(ctx, "luxe_cart", "v1.first"))
	require.NoError(t, b.Set(ctx, "luxe_cart", "v1.second"))

	value, found, err := b.Get(ctx, "luxe_cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1.second", value, "last write wins")

	require.NoError(t, b.Delete(ctx, "luxe_cart"))
	_, found, err = b.Get(ctx, "luxe_cart")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Delete(ctx, "luxe_cart"), "deleting an absent slot is not an error")
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	exerciseBackend(t, b)

	for _, key := range []string{"../escape", "..", "/etc/passwd"} {
		require.NoError(t, b.Set(context.Background(), key, "x"))
		rel, err := filepath.Rel(dir, b.path(key))
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(rel, "."), "key %q mapped outside dir: %s", key, rel)
		assert.Equal(t, filepath.Base(rel), rel)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "_escape.slot", filepath.Base(b.path("../escape")))
}

type fakeRedis struct {
	data map[string]string
}

func (f *fakeRedis) Lookup(_ context.Context, key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) SlotKey(name string) string {
	return "sf:slot:" + name
}

func TestRedisBackend(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{}}
	b := NewRedisBackend(fake)
	exerciseBackend(t, b)

	require.NoError(t, b.Set(context.Background(), "luxe_cart", "v1.x"))
	assert.Equal(t, "v1.x", fake.data["sf:slot:luxe_cart"])
}

func TestSQLBackendOnSQLite(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		DSN:          "file:persistence_sql_test?mode=memory&cache=shared",
		Driver:       config.StorageDriverSQLite,
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	require.NoError(t, migrate.Run(ctx, sqlDB, client.Dialect(), "up"))

	b := NewSQLBackend(client.DB())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }
	exerciseBackend(t, b)
}

func TestNewBackendSelection(t *testing.T) {
	cases := map[string]bool{
		config.StorageDriverMemory:   true,
		config.StorageDriverFile:     true,
		config.StorageDriverDisabled: true,
		config.StorageDriverRedis:    false,
		config.StorageDriverSQLite:   false,
		"indexeddb":                  false,
	}
	for driver, ok := range cases {
		_, err := NewBackend(driver, BackendDeps{Dir: t.TempDir()})
		if ok && err != nil {
			t.Fatalf("driver %s: unexpected error %v", driver, err)
		}
		if !ok && err == nil {
			t.Fatalf("driver %s: expected error without dependencies", driver)
		}
	}

	b, err := NewBackend(config.StorageDriverRedis, BackendDeps{Redis: &fakeRedis{data: map[string]string{}}})
	require.NoError(t, err)
	assert.IsType(t, &RedisBackend{}, b)
}
