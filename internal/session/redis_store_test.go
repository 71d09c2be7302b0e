package session

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var testRedisAddr string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis container: %v\n", err)
		os.Exit(1)
	}

	testRedisAddr, err = container.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func setupRedisStore(t *testing.T) (*RedisStore, *redis.Client) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	require.NoError(t, client.FlushAll(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true},
		[]byte("0123456789abcdef0123456789abcdef"))
	return store, client
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, client := setupRedisStore(t)
	m := NewManager(store, testSessionName)

	rec := httptest.NewRecorder()
	require.NoError(t, m.SetCustomer(rec, httptest.NewRequest(http.MethodPost, "/store/auth", nil), "cus_9"))

	keys, err := client.Keys(context.Background(), defaultKeyPrefix+"*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	id, ok := m.CustomerID(followUp(rec))
	assert.True(t, ok)
	assert.Equal(t, "cus_9", id)
}

func TestRedisStore_DestroyRemovesKey(t *testing.T) {
	store, client := setupRedisStore(t)
	m := NewManager(store, testSessionName)

	login := httptest.NewRecorder()
	require.NoError(t, m.SetCustomer(login, httptest.NewRequest(http.MethodPost, "/store/auth", nil), "cus_9"))

	require.NoError(t, m.Destroy(httptest.NewRecorder(), followUp(login)))

	keys, err := client.Keys(context.Background(), defaultKeyPrefix+"*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, ok := m.CustomerID(followUp(login))
	assert.False(t, ok)
}

func TestRedisStore_UnknownSessionIsNew(t *testing.T) {
	store, client := setupRedisStore(t)
	m := NewManager(store, testSessionName)

	login := httptest.NewRecorder()
	require.NoError(t, m.SetCustomer(login, httptest.NewRequest(http.MethodPost, "/store/auth", nil), "cus_9"))
	require.NoError(t, client.FlushAll(context.Background()).Err())

	sess, err := store.New(followUp(login), testSessionName)
	require.NoError(t, err)
	assert.True(t, sess.IsNew)
	assert.Empty(t, sess.ID)
}

func sessionKeys(t *testing.T, client *redis.Client) []string {
	t.Helper()
	keys, err := client.Keys(context.Background(), defaultKeyPrefix+"*").Result()
	require.NoError(t, err)
	return keys
}

func TestRedisStore_LoginIssuesNewSessionID(t *testing.T) {
	store, client := setupRedisStore(t)
	m := NewManager(store, testSessionName)

	planted := httptest.NewRecorder()
	require.NoError(t, m.SetCustomer(planted, httptest.NewRequest(http.MethodPost, "/store/auth", nil), "cus_other"))
	before := sessionKeys(t, client)
	require.Len(t, before, 1)

	login := httptest.NewRecorder()
	require.NoError(t, m.SetCustomer(login, followUp(planted), "cus_9"))

	after := sessionKeys(t, client)
	require.Len(t, after, 1)
	assert.NotEqual(t, before[0], after[0])

	_, ok := m.CustomerID(followUp(planted))
	assert.False(t, ok, "the cookie from before login must no longer resolve")

	id, ok := m.CustomerID(followUp(login))
	assert.True(t, ok)
	assert.Equal(t, "cus_9", id)
}

func TestRedisStore_ClearCustomerKeepsAdmin(t *testing.T) {
	store, client := setupRedisStore(t)
	m := NewManager(store, testSessionName)

	admin := httptest.NewRecorder()
	require.NoError(t, m.SetUser(admin, httptest.NewRequest(http.MethodPost, "/admin/auth", nil), "usr_1"))

	both := httptest.NewRecorder()
	require.NoError(t, m.SetCustomer(both, followUp(admin), "cus_9"))

	logout := httptest.NewRecorder()
	require.NoError(t, m.ClearCustomer(logout, followUp(both)))
	assert.Len(t, sessionKeys(t, client), 1)

	_, ok := m.CustomerID(followUp(both))
	assert.False(t, ok)

	id, ok := m.UserID(followUp(both))
	assert.True(t, ok)
	assert.Equal(t, "usr_1", id)
}
