package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nhle/animefeed/internal/logging"
	"github.com/nhle/animefeed/internal/model"
)

// Page is one fetch from a Source. Fetched is the number of raw records
// the server returned and advances the offset; it can differ from
// len(Items) when the source groups or filters records.
type Page struct {
	Items   []model.Activity
	Fetched int
	HasMore bool
}

// Source fetches pages for one filter.
type Source interface {
	Fetch(ctx context.Context, limit, offset int) (Page, error)
}

// MergeFunc combines an activity already in a bucket with a later page's
// activity under the same key.
type MergeFunc func(existing, incoming model.Activity) model.Activity

// Merger is implemented by sources whose pages can split one logical
// activity, such as a notification group straddling a page boundary.
type Merger interface {
	Merge(existing, incoming model.Activity) model.Activity
}

func mergeFor(src Source) MergeFunc {
	if m, ok := src.(Merger); ok {
		return m.Merge
	}
	return nil
}

// PageOptions sizes the initial window and later pages.
type PageOptions struct {
	FirstPageSize int
	InitialWindow int
	PageSize      int
}

// DefaultPageOptions shows 10 activities first, fills up to 30 in the
// background and then pages 10 at a time.
func DefaultPageOptions() PageOptions {
	return PageOptions{FirstPageSize: 10, InitialWindow: 30, PageSize: 10}
}

// Paginator loads pages from each filter's Source into the Store.
type Paginator struct {
	store   *Store
	sources map[Filter]Source
	opts    PageOptions
	log     *logging.Logger

	// onLoaded is called with every batch newly added to a bucket.
	onLoaded func(ctx context.Context, f Filter, added []model.Activity)

	wg sync.WaitGroup
}

// NewPaginator returns a paginator writing into store.
func NewPaginator(store *Store, sources map[Filter]Source, opts PageOptions, log *logging.Logger) *Paginator {
	def := DefaultPageOptions()
	if opts.FirstPageSize <= 0 {
		opts.FirstPageSize = def.FirstPageSize
	}
	if opts.InitialWindow < opts.FirstPageSize {
		opts.InitialWindow = opts.FirstPageSize
	}
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Paginator{store: store, sources: sources, opts: opts, log: log}
}

// OnLoaded registers a hook that runs after activities are added.
func (p *Paginator) OnLoaded(fn func(ctx context.Context, f Filter, added []model.Activity)) {
	p.onLoaded = fn
}

// Wait blocks until background fetches started by LoadFirstPage finish.
func (p *Paginator) Wait() { p.wg.Wait() }

// Activate makes f the shown filter. A bucket that already holds data is
// reused as is; an empty or failed one is loaded from the start.
func (p *Paginator) Activate(ctx context.Context, f Filter) error {
	p.store.SetActive(f)
	b := p.store.Bucket(f)
	if b.State != StateEmpty && !(b.State == StateError && len(b.Activities) == 0) {
		return nil
	}
	return p.LoadFirstPage(ctx, f)
}

// Refresh drops the cached bucket for f and loads it again.
func (p *Paginator) Refresh(ctx context.Context, f Filter) error {
	p.store.Reset(f)
	return p.LoadFirstPage(ctx, f)
}

// LoadFirstPage replaces the bucket with the first page and returns as
// soon as it is published. The rest of the initial window is fetched in
// the background; a failure there is logged and leaves HasMore true so
// LoadMore can continue from the current offset.
func (p *Paginator) LoadFirstPage(ctx context.Context, f Filter) error {
	src, ok := p.sources[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSource, f)
	}

	gen, err := p.begin(f, StateLoading)
	if err != nil {
		return err
	}

	page, err := src.Fetch(ctx, p.opts.FirstPageSize, 0)
	if err != nil {
		p.fail(f, gen, err)
		return fmt.Errorf("load %s feed: %w", f, err)
	}

	s := p.store
	s.mu.Lock()
	b := s.buckets[f]
	if b.generation != gen {
		s.mu.Unlock()
		return nil
	}
	b.activities = nil
	b.index = make(map[string]int)
	b.appendUnique(page.Items, mergeFor(src))
	added := append([]model.Activity(nil), b.activities...)
	b.offset = page.Fetched
	b.hasMore = page.HasMore
	b.err = nil
	b.state = b.settledState()
	rest := p.opts.InitialWindow - p.opts.FirstPageSize
	background := b.hasMore && rest > 0
	b.background = background
	b.inFlight = background
	offset := b.offset
	s.mu.Unlock()

	s.notify(Event{Kind: EventBucket, Filter: f})
	p.loaded(ctx, f, added)

	if background {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.fillWindow(ctx, f, src, gen, rest, offset)
		}()
	}
	return nil
}

func (p *Paginator) fillWindow(ctx context.Context, f Filter, src Source, gen, limit, offset int) {
	page, err := src.Fetch(ctx, limit, offset)

	s := p.store
	s.mu.Lock()
	b := s.buckets[f]
	if b.generation != gen {
		s.mu.Unlock()
		return
	}
	b.background = false
	b.inFlight = false
	if err != nil {
		s.mu.Unlock()
		p.log.Warn("background page fetch failed",
			zap.String("filter", string(f)),
			zap.Int("offset", offset),
			zap.Error(err))
		s.notify(Event{Kind: EventBucket, Filter: f})
		return
	}
	before := len(b.activities)
	b.appendUnique(page.Items, mergeFor(src))
	added := append([]model.Activity(nil), b.activities[before:]...)
	b.offset += page.Fetched
	b.hasMore = page.HasMore
	b.state = b.settledState()
	s.mu.Unlock()

	s.notify(Event{Kind: EventBucket, Filter: f})
	p.loaded(ctx, f, added)
}

// LoadMore appends the next page to the bucket. It fails with
// ErrLoadInFlight while any fetch for f runs and with ErrNoMorePages once
// the server has signalled the end.
func (p *Paginator) LoadMore(ctx context.Context, f Filter) error {
	src, ok := p.sources[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSource, f)
	}

	s := p.store
	s.mu.Lock()
	b := s.buckets[f]
	if b.inFlight {
		s.mu.Unlock()
		return ErrLoadInFlight
	}
	if !b.hasMore {
		s.mu.Unlock()
		return ErrNoMorePages
	}
	b.inFlight = true
	b.state = StateLoadingMore
	gen := b.generation
	offset := b.offset
	s.mu.Unlock()
	s.notify(Event{Kind: EventBucket, Filter: f})

	page, err := src.Fetch(ctx, p.opts.PageSize, offset)
	if err != nil {
		p.fail(f, gen, err)
		return fmt.Errorf("load more %s feed: %w", f, err)
	}

	s.mu.Lock()
	if b.generation != gen {
		s.mu.Unlock()
		return nil
	}
	before := len(b.activities)
	b.appendUnique(page.Items, mergeFor(src))
	added := append([]model.Activity(nil), b.activities[before:]...)
	b.offset += page.Fetched
	b.hasMore = page.HasMore
	b.inFlight = false
	b.err = nil
	b.state = b.settledState()
	s.mu.Unlock()

	s.notify(Event{Kind: EventBucket, Filter: f})
	p.loaded(ctx, f, added)
	return nil
}

func (p *Paginator) begin(f Filter, state State) (int, error) {
	s := p.store
	s.mu.Lock()
	b := s.buckets[f]
	if b.inFlight {
		s.mu.Unlock()
		return 0, ErrLoadInFlight
	}
	b.inFlight = true
	b.state = state
	b.err = nil
	gen := b.generation
	s.mu.Unlock()
	s.notify(Event{Kind: EventBucket, Filter: f})
	return gen, nil
}

// fail moves the bucket to StateError keeping whatever it already holds.
func (p *Paginator) fail(f Filter, gen int, err error) {
	s := p.store
	s.mu.Lock()
	b := s.buckets[f]
	if b.generation != gen {
		s.mu.Unlock()
		return
	}
	b.inFlight = false
	b.state = StateError
	b.err = err
	s.mu.Unlock()
	s.notify(Event{Kind: EventBucket, Filter: f})
}

func (p *Paginator) loaded(ctx context.Context, f Filter, added []model.Activity) {
	if p.onLoaded != nil && len(added) > 0 {
		p.onLoaded(ctx, f, added)
	}
}
