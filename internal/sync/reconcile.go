package sync

import (
	"context"
	"fmt"
	"log/slog"

	"gtasksync/internal/service"
)

// kind is the capability set the reconciler needs for one entity kind.
// L is the local row type, S the remote shadow type.
type kind[L, S any] interface {
	name() string
	link(s *S) *service.Link

	localID(l *L) int64
	localUpdated(l *L) int64
	loadLocal(ctx context.Context, id int64) (*L, error)
	saveLocal(ctx context.Context, l *L, updated int64) error
	deleteLocal(ctx context.Context, l *L) error
	unlinked(ctx context.Context) ([]*L, error)

	saveShadow(ctx context.Context, s *S) error
	deleteShadow(ctx context.Context, s *S) error

	createRemote(ctx context.Context, s *S) (*S, error)
	updateRemote(ctx context.Context, s *S) (*S, error)
	deleteRemote(ctx context.Context, s *S) error

	// newLocal builds a local row from a shadow that has none.
	newLocal(s *S) *L
	// newShadow builds the shadow of a row that was never uploaded.
	newShadow(l *L) *S
	// toLocal copies the remote payload onto the local row.
	toLocal(s *S, l *L)
	// toShadow copies the local payload onto the shadow.
	toShadow(l *L, s *S)
}

// Pair is a local row with its remote shadow. Either side may be nil
// between the two reconcile stages.
type Pair[L, S any] struct {
	Local  *L
	Remote *S
}

type reconciler[L, S any] struct {
	kind   kind[L, S]
	stats  *Stats
	logger *slog.Logger
}

func newReconciler[L, S any](k kind[L, S], stats *Stats, logger *slog.Logger) *reconciler[L, S] {
	return &reconciler[L, S]{
		kind:   k,
		stats:  stats,
		logger: logger.With("kind", k.name()),
	}
}

// local applies the merged remote state to the local store and returns the
// pairs that still need the remote stage, followed by local rows that were
// never linked.
func (r *reconciler[L, S]) local(ctx context.Context, unified []*S) ([]Pair[L, S], error) {
	k := r.kind
	pairs := make([]Pair[L, S], 0, len(unified))

	for _, remote := range unified {
		link := k.link(remote)

		var local *L
		if link.LocalID != 0 {
			var err error
			if local, err = k.loadLocal(ctx, link.LocalID); err != nil {
				return nil, err
			}
		}

		switch {
		case local == nil && link.RemotelyDeleted:
			// Gone on both sides.
			r.logger.Debug("purging shadow", "remote_id", link.RemoteID)
			if err := k.deleteShadow(ctx, remote); err != nil {
				return nil, err
			}
			continue

		case local == nil && link.Deleted:
			r.logger.Debug("local tombstone", "remote_id", link.RemoteID)

		case local == nil:
			local = k.newLocal(remote)
			if err := k.saveLocal(ctx, local, link.Updated); err != nil {
				return nil, err
			}
			link.LocalID = k.localID(local)
			if err := k.saveShadow(ctx, remote); err != nil {
				return nil, err
			}
			r.stats.LocalInserts++
			r.logger.Debug("inserted local", "remote_id", link.RemoteID, "local_id", link.LocalID)

		case link.RemotelyDeleted:
			if err := k.deleteLocal(ctx, local); err != nil {
				return nil, err
			}
			if err := k.deleteShadow(ctx, remote); err != nil {
				return nil, err
			}
			r.stats.LocalDeletes++
			r.logger.Debug("deleted local", "remote_id", link.RemoteID, "local_id", link.LocalID)
			continue

		case k.localUpdated(local) > link.Updated:
			// Local wins; the remote stage uploads it.
			k.toShadow(local, remote)

		case k.localUpdated(local) == link.Updated:

		default:
			k.toLocal(remote, local)
			if err := k.saveLocal(ctx, local, link.Updated); err != nil {
				return nil, err
			}
			if err := k.saveShadow(ctx, remote); err != nil {
				return nil, err
			}
			r.stats.LocalUpdates++
			r.logger.Debug("updated local", "remote_id", link.RemoteID, "local_id", link.LocalID)
		}

		pairs = append(pairs, Pair[L, S]{Local: local, Remote: remote})
	}

	fresh, err := k.unlinked(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range fresh {
		pairs = append(pairs, Pair[L, S]{Local: l})
	}
	return pairs, nil
}

// remote pushes local changes upstream and returns the pairs that are still
// alive and linked on both sides.
func (r *reconciler[L, S]) remote(ctx context.Context, pairs []Pair[L, S]) ([]Pair[L, S], error) {
	k := r.kind
	synced := make([]Pair[L, S], 0, len(pairs))

	for _, p := range pairs {
		switch {
		case p.Remote == nil:
			created, err := k.createRemote(ctx, k.newShadow(p.Local))
			if err != nil {
				return nil, err
			}
			link := k.link(created)
			link.LocalID = k.localID(p.Local)
			if err := k.saveShadow(ctx, created); err != nil {
				return nil, err
			}
			if err := k.saveLocal(ctx, p.Local, link.Updated); err != nil {
				return nil, err
			}
			r.stats.RemoteInserts++
			r.logger.Debug("created remote", "remote_id", link.RemoteID, "local_id", link.LocalID)
			synced = append(synced, Pair[L, S]{Local: p.Local, Remote: created})

		case k.link(p.Remote).Deleted:
			link := k.link(p.Remote)
			link.RemotelyDeleted = true
			err := k.deleteRemote(ctx, p.Remote)
			switch service.KindOf(err) {
			case service.KindNone:
				r.stats.RemoteDeletes++
				r.logger.Debug("deleted remote", "remote_id", link.RemoteID)
			case service.KindPrecondition:
				// The remote refuses to delete it (default list); nothing more to do.
				r.logger.Info("remote refused delete", "remote_id", link.RemoteID, "error", err)
			default:
				return nil, err
			}
			if err := k.deleteShadow(ctx, p.Remote); err != nil {
				return nil, err
			}

		case p.Local == nil:
			// Only tombstones arrive here without a local row.
			return nil, fmt.Errorf("%s %s: no local row for live shadow", k.name(), k.link(p.Remote).RemoteID)

		case k.localUpdated(p.Local) > k.link(p.Remote).Updated:
			updated, err := k.updateRemote(ctx, p.Remote)
			if err != nil {
				return nil, err
			}
			link := k.link(updated)
			link.LocalID = k.localID(p.Local)
			if err := k.saveLocal(ctx, p.Local, link.Updated); err != nil {
				return nil, err
			}
			if err := k.saveShadow(ctx, updated); err != nil {
				return nil, err
			}
			r.stats.RemoteUpdates++
			r.logger.Debug("updated remote", "remote_id", link.RemoteID, "local_id", link.LocalID)
			synced = append(synced, Pair[L, S]{Local: p.Local, Remote: updated})

		default:
			synced = append(synced, p)
		}
	}
	return synced, nil
}
