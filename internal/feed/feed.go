// Package feed caches one paginated bucket of activities per filter and
// applies user mutations to the bucket being shown.
package feed

import (
	"github.com/nhle/animefeed/internal/logging"
)

// Feed ties the store, its paginator and the mutation handlers together.
type Feed struct {
	Store   *Store
	Pages   *Paginator
	Actions *Actions
}

// Config wires a Feed.
type Config struct {
	Activities    ActivityLister
	Notifications NotificationLister
	Saved         interface {
		SavedKeys
		SavedToggler
	}
	Actions ActionDeps
	Pages   PageOptions
	Logger  *logging.Logger
}

// New builds a Feed with a source for every filter. Newly loaded
// activities are handed to Actions.Prefetch.
func New(cfg Config) *Feed {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	store := NewStore()
	sources := map[Filter]Source{
		FilterAll:           FeedSource{Lister: cfg.Activities},
		FilterFollowing:     FeedSource{Lister: cfg.Activities, FollowingOnly: true},
		FilterNotifications: NotificationSource{Lister: cfg.Notifications},
		FilterSaved:         SavedSource{Lister: cfg.Activities, Saved: cfg.Saved},
	}
	pages := NewPaginator(store, sources, cfg.Pages, log)

	deps := cfg.Actions
	deps.Saved = cfg.Saved
	if deps.Logger == nil {
		deps.Logger = log
	}
	actions := NewActions(store, deps)
	pages.OnLoaded(actions.Prefetch)

	return &Feed{Store: store, Pages: pages, Actions: actions}
}

// Wait blocks until every background fetch has finished.
func (f *Feed) Wait() {
	f.Pages.Wait()
	f.Actions.Wait()
}
