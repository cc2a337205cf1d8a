package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gtasksync/internal/service"
	"gtasksync/internal/store"
)

// State is a step of a sync run.
type State string

const (
	StateIdle           State = "idle"
	StateAuthenticating State = "authenticating"
	StateSyncingLists   State = "syncing-lists"
	StateSyncingTasks   State = "syncing-tasks"
	StateDone           State = "done"
	StateAborted        State = "aborted"
)

// Counters counts the failures of a run by kind.
type Counters struct {
	AuthErrors       int
	IOErrors         int
	UnexpectedErrors int
}

// Stats counts the mutations a run applied on each side.
type Stats struct {
	LocalInserts  int
	LocalUpdates  int
	LocalDeletes  int
	RemoteInserts int
	RemoteUpdates int
	RemoteDeletes int
}

// Mutations returns the total number of changes on both sides.
func (s Stats) Mutations() int {
	return s.LocalInserts + s.LocalUpdates + s.LocalDeletes +
		s.RemoteInserts + s.RemoteUpdates + s.RemoteDeletes
}

// Outcome reports how a run ended.
type Outcome struct {
	Success  bool
	State    State
	Counters Counters
	Stats    Stats

	// Err is the error that aborted the run, if any.
	Err error
}

// Options tune a single run.
type Options struct {
	// FullResync downloads every task regardless of the last sync time.
	FullResync bool
}

// Syncer drives sync runs against one local store.
type Syncer struct {
	store   *store.Store
	connect service.Connector
	logger  *slog.Logger
	now     func() time.Time
	loc     *time.Location
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) { s.logger = logger }
}

// WithClock overrides the clock used for the last-sync stamp.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// WithLocation sets the zone date-only due dates are placed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Syncer) { s.loc = loc }
}

// New creates a Syncer.
func New(st *store.Store, connect service.Connector, opts ...Option) *Syncer {
	s := &Syncer{
		store:   st,
		connect: connect,
		logger:  slog.Default(),
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run carries the state of one invocation of Run.
type run struct {
	*Syncer
	account string
	remote  service.Remote
	logger  *slog.Logger
	outcome *Outcome
}

func (r *run) enter(state State) {
	r.logger.Debug("sync state", "from", r.outcome.State, "to", state)
	r.outcome.State = state
}

// Run performs one sync for account. It never panics or returns an error;
// failures are reported in the Outcome. Changes committed before a failure
// are kept and the next run picks up from there.
func (s *Syncer) Run(ctx context.Context, account string, opts Options) Outcome {
	outcome := Outcome{State: StateIdle}
	r := &run{
		Syncer:  s,
		account: account,
		logger:  s.logger.With("run_id", uuid.NewString(), "account", account),
		outcome: &outcome,
	}
	start := s.now()

	r.enter(StateAuthenticating)
	remote, err := s.connect(ctx)
	if err != nil {
		r.logger.Error("could not open remote session", "error", err)
		outcome.Counters.AuthErrors++
		outcome.Err = err
		r.enter(StateAborted)
		return outcome
	}
	r.remote = remote
	defer func() {
		if err := remote.Close(); err != nil {
			r.logger.Warn("closing remote session", "error", err)
		}
	}()

	if err := r.sync(ctx, opts); err != nil {
		switch service.KindOf(err) {
		case service.KindAuth:
			outcome.Counters.AuthErrors++
		case service.KindTransport:
			outcome.Counters.IOErrors++
		default:
			outcome.Counters.UnexpectedErrors++
		}
		outcome.Err = err
		r.logger.Error("sync aborted", "state", outcome.State, "error", err)
		r.enter(StateAborted)
		return outcome
	}

	if err := s.store.MarkSynced(ctx, account, start); err != nil {
		outcome.Counters.UnexpectedErrors++
		outcome.Err = err
		r.logger.Error("could not record sync time", "error", err)
		r.enter(StateAborted)
		return outcome
	}

	outcome.Success = true
	r.enter(StateDone)
	r.logger.Info("sync complete",
		"local_inserts", outcome.Stats.LocalInserts,
		"local_updates", outcome.Stats.LocalUpdates,
		"local_deletes", outcome.Stats.LocalDeletes,
		"remote_inserts", outcome.Stats.RemoteInserts,
		"remote_updates", outcome.Stats.RemoteUpdates,
		"remote_deletes", outcome.Stats.RemoteDeletes)
	return outcome
}

func (r *run) sync(ctx context.Context, opts Options) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during sync: %v", p)
		}
	}()

	since, err := r.since(ctx, opts)
	if err != nil {
		return err
	}

	r.enter(StateSyncingLists)
	lists, err := r.syncLists(ctx)
	if err != nil {
		return err
	}

	r.enter(StateSyncingTasks)
	for _, p := range lists {
		if err := r.syncTasks(ctx, p, since); err != nil {
			return fmt.Errorf("list %q: %w", p.Local.Title, err)
		}
	}
	return nil
}

// since returns the since-token for the task download. The zero time asks
// for complete snapshots. A persisted full resync request is honoured until
// a run succeeds.
func (r *run) since(ctx context.Context, opts Options) (time.Time, error) {
	state, err := r.store.SyncState(ctx, r.account)
	if err != nil {
		return time.Time{}, err
	}
	if state.FullResync || opts.FullResync {
		r.logger.Info("full resync")
		return time.Time{}, nil
	}
	return state.LastSync, nil
}

func (r *run) syncLists(ctx context.Context) ([]Pair[store.TaskList, service.TaskList], error) {
	remoteLists, err := r.remote.ListLists(ctx)
	if err != nil {
		return nil, err
	}
	shadows, err := r.store.ListShadows(ctx, r.account)
	if err != nil {
		return nil, err
	}

	unified := Merge(remoteLists, shadows, true)
	r.logger.Debug("merged lists", "remote", len(remoteLists), "shadows", len(shadows), "unified", len(unified))

	rec := newReconciler[store.TaskList, service.TaskList](&listKind{
		store:   r.store,
		remote:  r.remote,
		account: r.account,
	}, &r.outcome.Stats, r.logger)

	pairs, err := rec.local(ctx, unified)
	if err != nil {
		return nil, err
	}
	return rec.remote(ctx, pairs)
}

func (r *run) syncTasks(ctx context.Context, list Pair[store.TaskList, service.TaskList], since time.Time) error {
	logger := r.logger.With("list", list.Remote.RemoteID)

	shadows, err := r.store.TaskShadows(ctx, r.account, list.Local.ID)
	if err != nil {
		return err
	}
	// Nothing is known about this list yet, so an incremental download
	// would miss its older tasks.
	if len(shadows) == 0 {
		since = time.Time{}
	}

	remoteTasks, err := r.fetchTasks(ctx, list, since)
	if err != nil {
		return err
	}
	if !since.IsZero() {
		stale, err := r.staleBaseline(ctx, remoteTasks, shadows)
		if err != nil {
			return err
		}
		if stale {
			logger.Info("stored baseline is newer than local task, downloading list in full")
			since = time.Time{}
			if remoteTasks, err = r.fetchTasks(ctx, list, since); err != nil {
				return err
			}
		}
	}

	unified := Merge(remoteTasks, shadows, since.IsZero())
	logger.Debug("merged tasks", "remote", len(remoteTasks), "shadows", len(shadows), "unified", len(unified), "since", since)

	rec := newReconciler[store.Task, service.Task](&taskKind{
		store:        r.store,
		remote:       r.remote,
		account:      r.account,
		listID:       list.Local.ID,
		listRemoteID: list.Remote.RemoteID,
		loc:          r.loc,
	}, &r.outcome.Stats, logger)

	pairs, err := rec.local(ctx, unified)
	if err != nil {
		return err
	}
	_, err = rec.remote(ctx, pairs)
	return err
}

func (r *run) fetchTasks(ctx context.Context, list Pair[store.TaskList, service.TaskList], since time.Time) ([]*service.Task, error) {
	remoteTasks, err := r.remote.ListChangedTasks(ctx, list.Remote.RemoteID, since)
	if err != nil {
		return nil, err
	}
	for _, t := range remoteTasks {
		t.ListID = list.Local.ID
	}
	return remoteTasks, nil
}

// staleBaseline reports whether a shadow left out of an incremental
// download would win against its local row. Stored shadows hold no
// payload, so such a task can only be merged from a complete download.
func (r *run) staleBaseline(ctx context.Context, changed, shadows []*service.Task) (bool, error) {
	seen := make(map[string]bool, len(changed))
	for _, t := range changed {
		seen[t.RemoteID] = true
	}

	for _, sh := range shadows {
		if seen[sh.RemoteID] || sh.Deleted {
			continue
		}
		if sh.LocalID == 0 {
			return true, nil
		}
		local, err := r.store.GetTask(ctx, sh.LocalID)
		if errors.Is(err, store.ErrNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if local.Updated < sh.Updated {
			return true, nil
		}
	}
	return false, nil
}
