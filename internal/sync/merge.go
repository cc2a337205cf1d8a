// Package sync reconciles the local replica with the remote task service.
//
// A run downloads the remote lists, merges them with the local shadow rows,
// reconciles them locally and then remotely, and repeats the same three steps
// for the tasks of every list that survived. Conflicts are resolved per entity
// by the larger updated stamp.
package sync

import "gtasksync/internal/service"

// linked is implemented by the remote shadow types.
type linked interface {
	Linkage() *service.Link
}

// Merge combines a remote snapshot with the local shadows of the same kind.
//
// Every remote entity whose RemoteID is known locally gets the shadow's
// LocalID and Deleted flag. Shadows that the snapshot does not contain are
// appended to the result. When complete is set the snapshot is the full
// remote state, so those shadows are flagged RemotelyDeleted. Otherwise the
// snapshot only holds changes and the shadows are appended unchanged, which
// keeps their stored baseline for the local comparison.
//
// The result covers the union of remote and shadow RemoteIDs.
func Merge[S linked](remote []S, shadows []S, complete bool) []S {
	index := make(map[string]S, len(shadows))
	order := make([]string, 0, len(shadows))
	for _, sh := range shadows {
		id := sh.Linkage().RemoteID
		if _, dup := index[id]; !dup {
			order = append(order, id)
		}
		index[id] = sh
	}

	result := make([]S, 0, len(remote)+len(shadows))
	for _, r := range remote {
		link := r.Linkage()
		if sh, ok := index[link.RemoteID]; ok {
			link.LocalID = sh.Linkage().LocalID
			link.Deleted = sh.Linkage().Deleted
			delete(index, link.RemoteID)
		}
		result = append(result, r)
	}

	for _, id := range order {
		sh, ok := index[id]
		if !ok {
			continue
		}
		if complete {
			sh.Linkage().RemotelyDeleted = true
		}
		result = append(result, sh)
	}
	return result
}
