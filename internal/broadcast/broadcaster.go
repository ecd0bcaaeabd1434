package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/events"
)

// Source supplies the full product list sent to realtime sessions
type Source interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
}

// Announcer tells other instances that the catalog changed
type Announcer interface {
	Announce(ctx context.Context) error
}

// Session is one connected realtime client
type Session struct {
	ID      string
	Updates events.Subscriber[events.ProductsUpdated]
}

// Broadcaster keeps every connected session's view of the catalog current.
// A snapshot is fetched and fanned out under one lock, so each session
// receives snapshots in the order the mutations completed and a new session
// never misses a change made after its initial snapshot.
type Broadcaster struct {
	log      hclog.Logger
	sessions *events.EventBus[events.ProductsUpdated]
	mutex    sync.Mutex

	announcer Announcer
}

// New creates a Broadcaster whose sessions buffer up to buffer snapshots
func New(log hclog.Logger, buffer int) *Broadcaster {
	b := &Broadcaster{
		log:      log,
		sessions: events.NewBufferedEventBus[events.ProductsUpdated](buffer),
	}
	b.sessions.OnDrop = func(events.Subscriber[events.ProductsUpdated], events.ProductsUpdated) {
		b.log.Warn("Session is not keeping up, snapshot dropped")
	}
	return b
}

// SetAnnouncer makes every local change also announce itself to a if set
func (b *Broadcaster) SetAnnouncer(a Announcer) {
	b.mutex.Lock()
	b.announcer = a
	b.mutex.Unlock()
}

// Connect registers a session and enqueues the current product list to it.
// Nothing is registered when the snapshot cannot be read.
func (b *Broadcaster) Connect(ctx context.Context, src Source) (*Session, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	products, err := src.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	s := &Session{ID: uuid.NewString(), Updates: b.sessions.Subscribe()}
	b.sessions.Send(s.Updates, events.ProductsUpdated{Products: products})

	b.log.Debug("Session connected", "session", s.ID, "sessions", b.sessions.Len())
	return s, nil
}

// Disconnect removes the session and closes its update channel
func (b *Broadcaster) Disconnect(s *Session) {
	b.sessions.Unsubscribe(s.Updates)
	b.log.Debug("Session disconnected", "session", s.ID, "sessions", b.sessions.Len())
}

// CatalogChanged pushes the current product list to every session and
// announces the change to other instances. Failures are logged; the
// mutation that triggered the call has already succeeded.
func (b *Broadcaster) CatalogChanged(ctx context.Context, src Source) {
	b.Refresh(ctx, src)

	b.mutex.Lock()
	a := b.announcer
	b.mutex.Unlock()

	if a == nil {
		return
	}
	if err := a.Announce(ctx); err != nil {
		b.log.Error("Unable to announce catalog change", "error", err)
	}
}

// Refresh pushes the current product list to every local session
func (b *Broadcaster) Refresh(ctx context.Context, src Source) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.sessions.Len() == 0 {
		return
	}

	products, err := src.GetAllProducts(ctx)
	if err != nil {
		b.log.Error("Unable to read products for broadcast", "error", err)
		return
	}

	b.sessions.Publish(events.ProductsUpdated{Products: products})
}

// Sessions returns the number of connected sessions
func (b *Broadcaster) Sessions() int {
	return b.sessions.Len()
}
