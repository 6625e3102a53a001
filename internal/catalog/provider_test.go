package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) (*Provider, *GormRepository, EventBus.Bus) {
	t.Helper()
	repo := newTestRepository(t)
	bus := EventBus.New()
	provider := NewProvider(repo, bus, nil)
	return provider, repo, bus
}

func openProvider(t *testing.T, p *Provider) {
	t.Helper()
	require.NoError(t, p.Open(context.Background()))
	t.Cleanup(p.Close)
	require.Eventually(t, func() bool {
		_, loading := p.Snapshot()
		return !loading
	}, 2*time.Second, 10*time.Millisecond, "first snapshot never arrived")
}

func TestProviderLoadingUntilFirstSnapshot(t *testing.T) {
	provider, _, _ := newTestProvider(t)

	products, loading := provider.Snapshot()
	assert.True(t, loading)
	assert.Empty(t, products)

	openProvider(t, provider)

	// an empty first snapshot still clears the flag
	products, loading = provider.Snapshot()
	assert.False(t, loading)
	assert.Empty(t, products)
	assert.Equal(t, uint64(1), provider.Revision())
}

func TestProviderSingleSubscription(t *testing.T) {
	provider, _, _ := newTestProvider(t)
	openProvider(t, provider)

	assert.ErrorIs(t, provider.Open(context.Background()), ErrSubscribed)
}

func TestProviderWriteIsEventuallyVisible(t *testing.T) {
	provider, _, _ := newTestProvider(t)
	openProvider(t, provider)

	err := provider.AddProduct(context.Background(), ProductForm{Name: "Kettle", Category: "Home & Kitchen", Price: 40, Stock: 7})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		products, _ := provider.Snapshot()
		return len(products) == 1
	}, 2*time.Second, 10*time.Millisecond)

	products, _ := provider.Snapshot()
	assert.Equal(t, "Kettle", products[0].Name)
	assert.Equal(t, products[0].CreatedAt, products[0].UpdatedAt)
}

// A write that reaches the store without a change notification stays
// invisible: the snapshot only moves when the subscription pushes. This
// pins the eventual-consistency contract and its race window.
func TestProviderSnapshotStaleWithoutPush(t *testing.T) {
	provider, repo, bus := newTestProvider(t)
	openProvider(t, provider)

	_, err := repo.Create(context.Background(), ProductForm{Name: "Silent", Category: "Books"})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	products, _ := provider.Snapshot()
	assert.Empty(t, products, "snapshot must not refresh without a push")

	bus.Publish(ChangeTopic)
	require.Eventually(t, func() bool {
		products, _ := provider.Snapshot()
		return len(products) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProviderDeleteAbsentKeepsSnapshot(t *testing.T) {
	provider, _, _ := newTestProvider(t)
	openProvider(t, provider)

	require.NoError(t, provider.AddProduct(context.Background(), ProductForm{Name: "Keep", Category: "Books"}))
	require.Eventually(t, func() bool {
		products, _ := provider.Snapshot()
		return len(products) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, provider.DeleteProduct(context.Background(), "missing-id"))

	// the follow-up snapshot carries the same content
	require.Eventually(t, func() bool {
		products, _ := provider.Snapshot()
		return len(products) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProviderWatch(t *testing.T) {
	provider, _, _ := newTestProvider(t)
	openProvider(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := provider.Watch(ctx)

	require.NoError(t, provider.AddProduct(context.Background(), ProductForm{Name: "Streamed", Category: "Books"}))

	select {
	case snap := <-updates:
		require.Len(t, snap.Products, 1)
		assert.Equal(t, "Streamed", snap.Products[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered to watcher")
	}
}

func TestProviderCloseIdempotent(t *testing.T) {
	provider, _, _ := newTestProvider(t)
	openProvider(t, provider)

	provider.Close()
	provider.Close()
}

func TestProviderSnapshotCopyIsolated(t *testing.T) {
	provider, _, _ := newTestProvider(t)
	openProvider(t, provider)

	require.NoError(t, provider.AddProduct(context.Background(), ProductForm{Name: "Original", Category: "Books"}))
	require.Eventually(t, func() bool {
		products, _ := provider.Snapshot()
		return len(products) == 1
	}, 2*time.Second, 10*time.Millisecond)

	products, _ := provider.Snapshot()
	products[0].Name = "Mutated"

	again, _ := provider.Snapshot()
	assert.Equal(t, "Original", again[0].Name)
}
