package redissession

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	store := New(host+":"+port.Port(), "", ttl)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Ping(ctx))
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := setupStore(t, time.Minute)
	ctx := context.Background()

	id, err := store.GetCartID(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.SetCartID(ctx, "tok", "cart-1"))

	id, err = store.GetCartID(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "cart-1", id)

	require.NoError(t, store.DeleteCartID(ctx, "tok"))

	id, err = store.GetCartID(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestStore_DeleteAbsentIsNoOp(t *testing.T) {
	store := setupStore(t, time.Minute)

	require.NoError(t, store.DeleteCartID(context.Background(), "never-set"))
}

func TestStore_BindingExpires(t *testing.T) {
	store := setupStore(t, time.Second)
	ctx := context.Background()

	require.NoError(t, store.SetCartID(ctx, "tok", "cart-1"))
	time.Sleep(1500 * time.Millisecond)

	id, err := store.GetCartID(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, id)
}
