// ABOUTME: Acquisition orchestrator walks the cache, static snapshot and live relay tiers
// ABOUTME: Presents the first usable result and refreshes the cache in the background

package reading

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"shelf-widgets/core/domain"
	coreerrors "shelf-widgets/core/errors"
	"shelf-widgets/core/feed"
	"shelf-widgets/core/interfaces"
	"shelf-widgets/core/relay"
	"shelf-widgets/pkg/featureflags"
)

// DefaultFeedBaseURL is the Goodreads shelf RSS endpoint; the user id and shelf are appended
const DefaultFeedBaseURL = "https://www.goodreads.com/review/list_rss/"

// ErrExhausted is returned when no relay yielded any records
var ErrExhausted = errors.New("all relays exhausted without records")

// SnapshotStore is the cache tier
type SnapshotStore interface {
	Read(ctx context.Context) (domain.Snapshot, bool)
	Write(ctx context.Context, snap domain.Snapshot) (domain.Snapshot, error)
}

// StaticLoader is the bundled snapshot tier
type StaticLoader interface {
	Load(ctx context.Context) (domain.Snapshot, error)
}

// Dependencies holds the collaborators of an Orchestrator. Store, Static and Presenter
// may be nil, which disables that tier or the hand-off.
type Dependencies struct {
	Store     SnapshotStore
	Static    StaticLoader
	Fetcher   interfaces.Fetcher
	Presenter interfaces.Presenter
	Logger    interfaces.Logger
	Flags     featureflags.Manager
}

// Config holds the upstream feed settings
type Config struct {
	// UserID is the Goodreads user whose shelves are fetched
	UserID string

	// FeedBaseURL overrides DefaultFeedBaseURL
	FeedBaseURL string

	// Relays are tried in order; empty means relay.Default()
	Relays []relay.Relay
}

// Result describes how a foreground load ended
type Result struct {
	// State is the terminal state reached
	State State

	// Snapshot is what was presented; empty for LiveExhausted
	Snapshot domain.Snapshot

	// Relay names the relay that produced live data
	Relay string

	// AcquisitionID correlates the load's log lines
	AcquisitionID string
}

// liveResult is what one live pass produced
type liveResult struct {
	snapshot domain.Snapshot
	relay    string
}

// Orchestrator coordinates the acquisition tiers. It is constructed once per session.
type Orchestrator struct {
	deps        Dependencies
	userID      string
	feedBaseURL string
	relays      []relay.Relay

	live       singleflight.Group
	background sync.WaitGroup
}

// New creates an orchestrator
func New(deps Dependencies, cfg Config) *Orchestrator {
	if deps.Flags == nil {
		deps.Flags = featureflags.NewStaticManager(nil)
	}

	relays := cfg.Relays
	if len(relays) == 0 {
		relays = relay.Default()
	}

	base := cfg.FeedBaseURL
	if base == "" {
		base = DefaultFeedBaseURL
	}

	return &Orchestrator{
		deps:        deps,
		userID:      cfg.UserID,
		feedBaseURL: base,
		relays:      relays,
	}
}

// ShelfURL returns the upstream feed URL for a shelf
func (o *Orchestrator) ShelfURL(shelf domain.Shelf) string {
	return fmt.Sprintf("%s%s?shelf=%s", o.feedBaseURL, url.PathEscape(o.userID), url.QueryEscape(string(shelf)))
}

// Load runs one foreground acquisition: cache, then static snapshot, then live relays.
// Exactly one presenter call is made. After a static snapshot hit, a background refresh
// is started and not awaited; see Wait.
func (o *Orchestrator) Load(ctx context.Context) Result {
	id := uuid.NewString()
	o.trace(id, ColdStart, nil)

	if o.deps.Store != nil && o.deps.Flags.IsEnabled(ctx, featureflags.CacheEnabled) {
		if snap, ok := o.deps.Store.Read(ctx); ok {
			o.trace(id, CacheHit, map[string]interface{}{"captured_at": snap.CapturedAt.Format(time.RFC3339)})
			o.present(snap)
			return Result{State: CacheHit, Snapshot: snap, AcquisitionID: id}
		}
	}
	o.trace(id, CacheMiss, nil)

	if o.deps.Static != nil && o.deps.Flags.IsEnabled(ctx, featureflags.StaticSnapshotEnabled) {
		o.trace(id, SnapshotAttempt, nil)
		snap, err := o.deps.Static.Load(ctx)
		if err == nil {
			o.trace(id, SnapshotHit, map[string]interface{}{
				"current": len(snap.CurrentBooks),
				"read":    len(snap.ReadBooks),
			})
			o.present(snap)
			if o.deps.Flags.IsEnabled(ctx, featureflags.BackgroundRefreshEnabled) {
				o.refreshInBackground(ctx, id)
			}
			return Result{State: SnapshotHit, Snapshot: snap, AcquisitionID: id}
		}
		o.trace(id, SnapshotMiss, map[string]interface{}{"error": err.Error()})
	}

	o.trace(id, LiveAttempt, nil)
	res, err := o.acquire(ctx, id)
	if err != nil {
		o.trace(id, LiveExhausted, map[string]interface{}{"error": err.Error()})
		if o.deps.Presenter != nil {
			o.deps.Presenter.DisplayFallback()
		}
		return Result{State: LiveExhausted, AcquisitionID: id}
	}

	snap := o.commit(ctx, id, res.snapshot)
	o.trace(id, LiveSuccess, map[string]interface{}{
		"relay":   res.relay,
		"current": len(snap.CurrentBooks),
		"read":    len(snap.ReadBooks),
	})
	o.present(snap)
	return Result{State: LiveSuccess, Snapshot: snap, Relay: res.relay, AcquisitionID: id}
}

// Acquire runs only the live tier and returns the first relay's non-empty result
// without touching the cache. ErrExhausted means no relay produced records.
func (o *Orchestrator) Acquire(ctx context.Context) (domain.Snapshot, string, error) {
	res, err := o.acquire(ctx, uuid.NewString())
	if err != nil {
		return domain.Snapshot{}, "", err
	}
	return res.snapshot, res.relay, nil
}

// Wait blocks until background refreshes started by Load have finished
func (o *Orchestrator) Wait() {
	o.background.Wait()
}

// refreshInBackground re-runs the live tier on a context detached from the caller's
// cancellation. Its outcome only reaches the cache; failures are logged and dropped.
func (o *Orchestrator) refreshInBackground(ctx context.Context, id string) {
	bgCtx := context.WithoutCancel(ctx)

	o.background.Add(1)
	go func() {
		defer o.background.Done()

		res, err := o.acquire(bgCtx, id)
		if err != nil {
			o.log("debug", "Background refresh produced nothing", map[string]interface{}{
				"acquisition_id": id,
				"error":          err.Error(),
			})
			return
		}
		o.commit(bgCtx, id, res.snapshot)
		o.log("info", "Background refresh updated cache", map[string]interface{}{
			"acquisition_id": id,
			"relay":          res.relay,
		})
	}()
}

// acquire runs one live pass. Concurrent callers share a single pass so at most one
// pipeline talks to the relays at a time.
func (o *Orchestrator) acquire(ctx context.Context, id string) (liveResult, error) {
	v, err, shared := o.live.Do("live", func() (interface{}, error) {
		return o.tryRelays(ctx, id)
	})
	if shared {
		o.log("debug", "Joined in-flight live acquisition", map[string]interface{}{"acquisition_id": id})
	}
	if err != nil {
		return liveResult{}, err
	}
	res := v.(liveResult)
	res.snapshot = res.snapshot.Clone()
	return res, nil
}

// tryRelays walks the relays in order and stops at the first one that yields any record.
// Results are never merged across relays.
func (o *Orchestrator) tryRelays(ctx context.Context, id string) (liveResult, error) {
	if o.deps.Fetcher == nil {
		return liveResult{}, errors.New("fetcher not configured")
	}

	for i, r := range o.relays {
		if err := ctx.Err(); err != nil {
			return liveResult{}, err
		}

		snap := o.fetchShelves(ctx, id, r)
		o.log("debug", "Relay attempt finished", map[string]interface{}{
			"acquisition_id": id,
			"relay":          r.Name(),
			"position":       i,
			"current":        len(snap.CurrentBooks),
			"read":           len(snap.ReadBooks),
		})
		if !snap.IsEmpty() {
			return liveResult{snapshot: snap, relay: r.Name()}, nil
		}
	}
	return liveResult{}, ErrExhausted
}

// fetchShelves fetches both shelves through r concurrently. Each fetch carries its own
// timeout; a failed shelf is empty and never cancels its sibling.
func (o *Orchestrator) fetchShelves(ctx context.Context, id string, r relay.Relay) domain.Snapshot {
	shelves := make([][]domain.Book, len(domain.Shelves))

	var g errgroup.Group
	for i, shelf := range domain.Shelves {
		g.Go(func() error {
			target := r.Rewrite(o.ShelfURL(shelf))
			body, err := o.deps.Fetcher.Fetch(ctx, target)
			if err != nil {
				o.log("debug", "Shelf fetch failed", map[string]interface{}{
					"acquisition_id": id,
					"relay":          r.Name(),
					"shelf":          string(shelf),
					"timeout":        coreerrors.IsTimeout(err),
					"status":         coreerrors.StatusCode(err),
					"error":          err.Error(),
				})
				shelves[i] = []domain.Book{}
				return nil
			}
			shelves[i] = feed.Parse(body)
			return nil
		})
	}
	_ = g.Wait()

	return domain.Snapshot{
		CurrentBooks: shelves[0],
		ReadBooks:    shelves[1],
	}
}

// commit writes a live result to the cache when the cache tier is enabled. A failed
// write is logged; the uncommitted snapshot is still usable.
func (o *Orchestrator) commit(ctx context.Context, id string, snap domain.Snapshot) domain.Snapshot {
	if o.deps.Store == nil || !o.deps.Flags.IsEnabled(ctx, featureflags.CacheEnabled) {
		return snap
	}

	committed, err := o.deps.Store.Write(ctx, snap)
	if err != nil {
		o.log("warn", "Failed to write snapshot to cache", map[string]interface{}{
			"acquisition_id": id,
			"error":          err.Error(),
		})
		return snap
	}
	return committed
}

func (o *Orchestrator) present(snap domain.Snapshot) {
	if o.deps.Presenter != nil {
		o.deps.Presenter.DisplayReading(snap.Clone())
	}
}

func (o *Orchestrator) trace(id string, state State, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["acquisition_id"] = id
	fields["state"] = state.String()
	level := "debug"
	if state.Terminal() {
		level = "info"
	}
	o.log(level, "Acquisition state", fields)
}

func (o *Orchestrator) log(level, msg string, fields map[string]interface{}) {
	if o.deps.Logger == nil {
		return
	}
	switch level {
	case "debug":
		o.deps.Logger.Debug(msg, fields)
	case "warn":
		o.deps.Logger.Warn(msg, fields)
	case "error":
		o.deps.Logger.Error(msg, fields)
	default:
		o.deps.Logger.Info(msg, fields)
	}
}
