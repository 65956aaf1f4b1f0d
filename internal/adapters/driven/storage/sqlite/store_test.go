package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleConnection(id string) domain.Connection {
	return domain.Connection{
		ID:           id,
		Name:         "acme",
		Active:       true,
		SourceURL:    "https://mdm.acme.example",
		SourceAPIKey: "source-key",
		Upstream: domain.UpstreamCredentials{
			AccessToken:  "access-" + id,
			RefreshToken: "refresh-" + id,
			ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		},
		UpstreamSourceID: "source-1",
		UserResourceID:   "users-1",
		DeviceResourceID: "devices-1",
	}
}

func TestConnectionStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	cs := store.ConnectionStore()
	ctx := context.Background()

	conn := sampleConnection("c1")
	require.NoError(t, cs.Save(ctx, conn))

	got, err := cs.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Name)
	assert.True(t, got.Active)
	assert.Equal(t, "https://mdm.acme.example", got.SourceURL)
	assert.Equal(t, "source-key", got.SourceAPIKey)
	assert.Equal(t, "access-c1", got.Upstream.AccessToken)
	assert.Equal(t, "refresh-c1", got.Upstream.RefreshToken)
	assert.Equal(t, conn.Upstream.ExpiresAt, got.Upstream.ExpiresAt.UTC())
	assert.Equal(t, "source-1", got.UpstreamSourceID)
	assert.Equal(t, "users-1", got.UserResourceID)
	assert.Equal(t, "devices-1", got.DeviceResourceID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestConnectionStoreGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ConnectionStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnectionStoreUpsert(t *testing.T) {
	store := newTestStore(t)
	cs := store.ConnectionStore()
	ctx := context.Background()

	conn := sampleConnection("c1")
	require.NoError(t, cs.Save(ctx, conn))

	conn.Name = "acme-renamed"
	conn.SourceAPIKey = "rotated-key"
	require.NoError(t, cs.Save(ctx, conn))

	got, err := cs.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "acme-renamed", got.Name)
	assert.Equal(t, "rotated-key", got.SourceAPIKey)

	all, err := cs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConnectionStoreListActive(t *testing.T) {
	store := newTestStore(t)
	cs := store.ConnectionStore()
	ctx := context.Background()

	active := sampleConnection("c1")
	inactive := sampleConnection("c2")
	inactive.Active = false

	require.NoError(t, cs.Save(ctx, active))
	require.NoError(t, cs.Save(ctx, inactive))

	all, err := cs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := cs.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
}

func TestConnectionStoreSetActive(t *testing.T) {
	store := newTestStore(t)
	cs := store.ConnectionStore()
	ctx := context.Background()

	require.NoError(t, cs.Save(ctx, sampleConnection("c1")))
	require.NoError(t, cs.SetActive(ctx, "c1", false))

	got, err := cs.Get(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, cs.SetActive(ctx, "missing", true), domain.ErrNotFound)
}

func TestConnectionStoreSaveCredentials(t *testing.T) {
	store := newTestStore(t)
	cs := store.ConnectionStore()
	ctx := context.Background()

	require.NoError(t, cs.Save(ctx, sampleConnection("c1")))

	creds := domain.UpstreamCredentials{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		ExpiresAt:    time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second),
	}
	updated, err := cs.SaveCredentials(ctx, "c1", creds)
	require.NoError(t, err)
	assert.Equal(t, "new-access", updated.Upstream.AccessToken)
	assert.Equal(t, "new-refresh", updated.Upstream.RefreshToken)
	assert.Equal(t, creds.ExpiresAt, updated.Upstream.ExpiresAt.UTC())

	_, err = cs.SaveCredentials(ctx, "missing", creds)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnectionStoreDelete(t *testing.T) {
	store := newTestStore(t)
	cs := store.ConnectionStore()
	ctx := context.Background()

	require.NoError(t, cs.Save(ctx, sampleConnection("c1")))
	require.NoError(t, cs.Delete(ctx, "c1"))

	_, err := cs.Get(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCredentialsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.ConnectionStore().Save(ctx, sampleConnection("c1")))
	_, err = store.ConnectionStore().SaveCredentials(ctx, "c1", domain.UpstreamCredentials{
		AccessToken:  "persisted-access",
		RefreshToken: "persisted-refresh",
		ExpiresAt:    time.Now().Add(time.Hour).UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.ConnectionStore().Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "persisted-access", got.Upstream.AccessToken)
	assert.Equal(t, "persisted-refresh", got.Upstream.RefreshToken)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, second.ConnectionStore().Save(context.Background(), sampleConnection("c1")))
}
