package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalog is an in-memory Source whose contents the test mutates
type catalog struct {
	mutex    sync.Mutex
	products []*domain.Product
	err      error
}

func (c *catalog) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return append([]*domain.Product{}, c.products...), nil
}

func (c *catalog) add(id string) {
	c.mutex.Lock()
	c.products = append(c.products, &domain.Product{ID: id, Thumbnails: []string{}})
	c.mutex.Unlock()
}

func productIDs(u events.ProductsUpdated) []string {
	ids := make([]string, 0, len(u.Products))
	for _, p := range u.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

type countingAnnouncer struct {
	calls int
	err   error
}

func (a *countingAnnouncer) Announce(context.Context) error {
	a.calls++
	return a.err
}

func TestConnectSendsSnapshotToNewSessionOnly(t *testing.T) {
	ctx := context.Background()
	src := &catalog{}
	src.add("p1")
	b := New(hclog.NewNullLogger(), 10)

	first, err := b.Connect(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, productIDs(<-first.Updates))

	second, err := b.Connect(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, productIDs(<-second.Updates))

	assert.Len(t, first.Updates, 0)
	assert.Equal(t, 2, b.Sessions())
}

func TestConnectEmptyCatalogSendsEmptyList(t *testing.T) {
	b := New(hclog.NewNullLogger(), 10)

	s, err := b.Connect(context.Background(), &catalog{})
	require.NoError(t, err)

	update := <-s.Updates
	assert.NotNil(t, update.Products)
	assert.Empty(t, update.Products)
}

func TestConnectFailsWithoutRegistering(t *testing.T) {
	b := New(hclog.NewNullLogger(), 10)

	_, err := b.Connect(context.Background(), &catalog{err: errors.New("boom")})
	assert.Error(t, err)
	assert.Equal(t, 0, b.Sessions())
}

func TestCatalogChangedReachesEverySession(t *testing.T) {
	ctx := context.Background()
	src := &catalog{}
	b := New(hclog.NewNullLogger(), 10)
	announcer := &countingAnnouncer{}
	b.SetAnnouncer(announcer)

	sessions := make([]*Session, 3)
	for i := range sessions {
		s, err := b.Connect(ctx, src)
		require.NoError(t, err)
		<-s.Updates
		sessions[i] = s
	}

	src.add("p1")
	b.CatalogChanged(ctx, src)

	for _, s := range sessions {
		assert.Equal(t, []string{"p1"}, productIDs(<-s.Updates))
	}
	assert.Equal(t, 1, announcer.calls)
}

func TestDisconnectedSessionReceivesNothing(t *testing.T) {
	ctx := context.Background()
	src := &catalog{}
	b := New(hclog.NewNullLogger(), 10)

	s, err := b.Connect(ctx, src)
	require.NoError(t, err)
	<-s.Updates
	b.Disconnect(s)

	src.add("p1")
	b.CatalogChanged(ctx, src)

	_, open := <-s.Updates
	assert.False(t, open)
	assert.Equal(t, 0, b.Sessions())
}

func TestSnapshotsArriveInMutationOrder(t *testing.T) {
	ctx := context.Background()
	src := &catalog{}
	b := New(hclog.NewNullLogger(), 100)

	s, err := b.Connect(ctx, src)
	require.NoError(t, err)
	<-s.Updates

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src.add(fmt.Sprintf("p%d", i))
			b.CatalogChanged(ctx, src)
		}()
	}
	wg.Wait()

	// every snapshot is at least as large as the one before it
	previous := 0
	for len(s.Updates) > 0 {
		n := len((<-s.Updates).Products)
		assert.GreaterOrEqual(t, n, previous)
		previous = n
	}
	assert.Equal(t, 20, previous)
}

func TestFailedAnnounceIsOnlyLogged(t *testing.T) {
	b := New(hclog.NewNullLogger(), 10)
	announcer := &countingAnnouncer{err: errors.New("redis down")}
	b.SetAnnouncer(announcer)

	assert.NotPanics(t, func() { b.CatalogChanged(context.Background(), &catalog{}) })
	assert.Equal(t, 1, announcer.calls)
}
