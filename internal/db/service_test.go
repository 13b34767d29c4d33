package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One shared in-memory database per test, so every pooled
	// connection sees the same tables.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&Service{}))
	return gdb
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "blocked"} {
		got, ok := ParseStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, Status(s), got)
	}
	for _, s := range []string{"", "Pending", "deleted", "pending "} {
		_, ok := ParseStatus(s)
		assert.False(t, ok, s)
	}
}

func TestParseCachePrivilege(t *testing.T) {
	for _, s := range []string{"original", "buffer", "no_cache"} {
		got, ok := ParseCachePrivilege(s)
		assert.True(t, ok, s)
		assert.Equal(t, CachePrivilege(s), got)
	}
	for _, s := range []string{"", "none", "NO_CACHE", "cache"} {
		_, ok := ParseCachePrivilege(s)
		assert.False(t, ok, s)
	}
}

func TestCreateServiceAssignsGeneratedFields(t *testing.T) {
	gdb := openTestDB(t)

	svc := &Service{
		Token:  "tok-1",
		User:   42,
		Status: StatusApproved,
		Cache:  CacheBuffer,
	}
	require.NoError(t, CreateService(gdb, svc, 3))

	assert.NotZero(t, svc.ID)
	assert.False(t, svc.CreatedTime.IsZero())
	assert.Equal(t, StatusApproved, svc.Status)
	assert.Equal(t, CacheBuffer, svc.Cache)

	loaded, err := GetService(gdb, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.Token, loaded.Token)
	assert.Equal(t, svc.User, loaded.User)
}

func TestCreateServiceTokenUnique(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, CreateService(gdb, &Service{Token: "dup", User: 1, Status: StatusPending, Cache: CacheNone}, 3))

	err := CreateService(gdb, &Service{Token: "dup", User: 2, Status: StatusPending, Cache: CacheNone}, 3)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCreateServiceUserLimit(t *testing.T) {
	gdb := openTestDB(t)

	for i, token := range []string{"a", "b", "c"} {
		err := CreateService(gdb, &Service{Token: token, User: 42, Status: StatusPending, Cache: CacheNone}, 3)
		require.NoError(t, err, "create %d", i)
	}

	err := CreateService(gdb, &Service{Token: "d", User: 42, Status: StatusPending, Cache: CacheNone}, 3)
	require.ErrorIs(t, err, ErrUserServiceLimit)

	// The existing records are unaffected and other users are not
	// blocked by someone else's quota.
	services, err := ListServices(gdb)
	require.NoError(t, err)
	assert.Len(t, services, 3)

	require.NoError(t, CreateService(gdb, &Service{Token: "d", User: 7, Status: StatusPending, Cache: CacheNone}, 3))
}

func TestSetServiceStatus(t *testing.T) {
	gdb := openTestDB(t)

	svc := &Service{Token: "tok", User: 1, Status: StatusPending, Cache: CacheBuffer}
	require.NoError(t, CreateService(gdb, svc, 3))

	updated, err := SetServiceStatus(gdb, svc.ID, StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, updated.Status)
	assert.Equal(t, CacheBuffer, updated.Cache, "status update must not touch cache")
	assert.Equal(t, svc.Token, updated.Token)

	_, err = SetServiceStatus(gdb, svc.ID+100, StatusApproved)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetServiceCache(t *testing.T) {
	gdb := openTestDB(t)

	svc := &Service{Token: "tok", User: 1, Status: StatusApproved, Cache: CacheNone}
	require.NoError(t, CreateService(gdb, svc, 3))

	updated, err := SetServiceCache(gdb, svc.ID, CacheOriginal)
	require.NoError(t, err)
	assert.Equal(t, CacheOriginal, updated.Cache)
	assert.Equal(t, StatusApproved, updated.Status, "cache update must not touch status")
	assert.Equal(t, svc.CreatedTime.Unix(), updated.CreatedTime.Unix())

	_, err = SetServiceCache(gdb, svc.ID+100, CacheBuffer)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteService(t *testing.T) {
	gdb := openTestDB(t)

	svc := &Service{Token: "tok", User: 1, Status: StatusPending, Cache: CacheNone}
	require.NoError(t, CreateService(gdb, svc, 3))

	deleted, err := DeleteService(gdb, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.ID, deleted.ID)
	assert.Equal(t, svc.Token, deleted.Token)

	_, err = GetService(gdb, svc.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = DeleteService(gdb, svc.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListServices(t *testing.T) {
	gdb := openTestDB(t)

	services, err := ListServices(gdb)
	require.NoError(t, err)
	assert.Empty(t, services)

	require.NoError(t, CreateService(gdb, &Service{Token: "a", User: 1, Status: StatusPending, Cache: CacheNone}, 3))
	require.NoError(t, CreateService(gdb, &Service{Token: "b", User: 2, Status: StatusPending, Cache: CacheNone}, 3))

	services, err = ListServices(gdb)
	require.NoError(t, err)
	assert.Len(t, services, 2)
}
