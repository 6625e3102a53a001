package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/pkg/changelog"
)

// ChangeTopic is published after every committed catalog write.
const ChangeTopic = "catalog.changed"

// ErrSubscribed is returned when Open is called on a provider that
// already holds its subscription; re-subscribing is not supported.
var ErrSubscribed = errors.New("catalog provider already subscribed")

// Snapshot is a full materialization of the product collection, pushed
// to watchers on every change.
type Snapshot struct {
	Products []domain.Product `json:"products"`
	Revision uint64           `json:"revision"`
}

// Provider holds the live product list shared by every consumer. It
// keeps exactly one change-bus subscription for its lifetime: writes go
// through the repository and become visible only when the subscription
// re-materializes the collection, so a caller that just finished a
// successful write may still observe the previous snapshot.
type Provider struct {
	repo    Repository
	bus     EventBus.Bus
	journal *changelog.Journal

	mu       sync.RWMutex
	products []domain.Product
	revision uint64
	loading  bool

	kick   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
	opened bool

	watchMu  sync.Mutex
	watchSeq int
	watchers map[int]chan Snapshot

	onChange func()
}

// NewProvider builds a provider over repo, wired to bus. journal may be
// nil when snapshot journaling is disabled.
func NewProvider(repo Repository, bus EventBus.Bus, journal *changelog.Journal) *Provider {
	return &Provider{
		repo:     repo,
		bus:      bus,
		journal:  journal,
		loading:  true,
		kick:     make(chan struct{}, 1),
		watchers: make(map[int]chan Snapshot),
	}
}

// Open establishes the single change subscription and loads the first
// snapshot asynchronously. The loading flag stays up until that first
// snapshot (possibly empty) has been materialized.
func (p *Provider) Open(ctx context.Context) error {
	p.mu.Lock()
	if p.opened {
		p.mu.Unlock()
		return ErrSubscribed
	}
	p.opened = true
	p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.onChange = func() {
		select {
		case p.kick <- struct{}{}:
		default:
			// a refresh is already pending, coalesce
		}
	}
	if err := p.bus.Subscribe(ChangeTopic, p.onChange); err != nil {
		cancel()
		return errors.Wrap(err, "subscribe catalog changes")
	}

	p.wg.Add(1)
	go p.run(runCtx)

	// first snapshot
	p.onChange()
	return nil
}

// Close tears the subscription down and stops the snapshot goroutine.
// Safe to call more than once.
func (p *Provider) Close() {
	p.mu.Lock()
	if !p.opened {
		p.mu.Unlock()
		return
	}
	p.opened = false
	p.mu.Unlock()

	_ = p.bus.Unsubscribe(ChangeTopic, p.onChange)
	p.cancel()
	p.wg.Wait()

	p.watchMu.Lock()
	for id, ch := range p.watchers {
		close(ch)
		delete(p.watchers, id)
	}
	p.watchMu.Unlock()
}

// run serializes snapshot replacement: change notifications only kick
// this goroutine, so consumers never observe a partially applied list.
func (p *Provider) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.kick:
			p.refresh(ctx)
		}
	}
}

func (p *Provider) refresh(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	products, err := p.repo.List(loadCtx)
	if err != nil {
		zap.L().Error("catalog snapshot refresh failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	p.products = products
	p.revision++
	p.loading = false
	snap := Snapshot{Products: products, Revision: p.revision}
	p.mu.Unlock()

	if p.journal != nil {
		if err := p.journal.Append(snap.Revision, len(snap.Products)); err != nil {
			zap.L().Warn("changelog append failed", zap.Error(err))
		}
	}

	p.watchMu.Lock()
	for _, ch := range p.watchers {
		select {
		case ch <- snap:
		default:
			// slow watcher, drop this revision for it
		}
	}
	p.watchMu.Unlock()
}

// Repo exposes the underlying repository for point reads.
func (p *Provider) Repo() Repository {
	return p.repo
}

// Snapshot returns a copy of the current product list and the loading
// flag. The copy may be freely read by the caller; it never aliases the
// provider's own slice.
func (p *Provider) Snapshot() ([]domain.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	products := make([]domain.Product, len(p.products))
	copy(products, p.products)
	return products, p.loading
}

// Revision returns the current snapshot revision, starting at 0 before
// the first snapshot.
func (p *Provider) Revision() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.revision
}

// Watch delivers every subsequent snapshot until ctx is cancelled or
// the provider closes. Slow receivers skip revisions instead of
// blocking the snapshot goroutine.
func (p *Provider) Watch(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 4)
	p.watchMu.Lock()
	p.watchSeq++
	id := p.watchSeq
	p.watchers[id] = ch
	p.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		p.watchMu.Lock()
		if c, okay := p.watchers[id]; okay {
			close(c)
			delete(p.watchers, id)
		}
		p.watchMu.Unlock()
	}()
	return ch
}

// AddProduct writes a new product through to the store. The local
// snapshot is not touched; the change arrives with the next push.
func (p *Provider) AddProduct(ctx context.Context, form ProductForm) error {
	if _, err := p.repo.Create(ctx, form); err != nil {
		return err
	}
	p.bus.Publish(ChangeTopic)
	return nil
}

// UpdateProduct merges form into the product at id, ErrNotFound when absent.
func (p *Provider) UpdateProduct(ctx context.Context, id string, form ProductForm) error {
	if _, err := p.repo.Update(ctx, id, form); err != nil {
		return err
	}
	p.bus.Publish(ChangeTopic)
	return nil
}

// DeleteProduct removes the product at id. Deleting an absent id is a no-op.
func (p *Provider) DeleteProduct(ctx context.Context, id string) error {
	if err := p.repo.Delete(ctx, id); err != nil {
		return err
	}
	p.bus.Publish(ChangeTopic)
	return nil
}
