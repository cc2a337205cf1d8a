package sync

import (
	"context"
	"errors"

	"gtasksync/internal/service"
	"gtasksync/internal/store"
)

// listKind reconciles task lists. Only the title is merged.
type listKind struct {
	store   *store.Store
	remote  service.Remote
	account string
}

func (k *listKind) name() string                                    { return "list" }
func (k *listKind) link(s *service.TaskList) *service.Link          { return &s.Link }
func (k *listKind) localID(l *store.TaskList) int64                 { return l.ID }
func (k *listKind) localUpdated(l *store.TaskList) int64            { return l.Updated }
func (k *listKind) toLocal(s *service.TaskList, l *store.TaskList)  { l.Title = s.Title }
func (k *listKind) toShadow(l *store.TaskList, s *service.TaskList) { s.Title = l.Title }

func (k *listKind) loadLocal(ctx context.Context, id int64) (*store.TaskList, error) {
	l, err := k.store.GetList(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return l, err
}

func (k *listKind) saveLocal(ctx context.Context, l *store.TaskList, updated int64) error {
	return k.store.SaveList(ctx, l, updated)
}

func (k *listKind) deleteLocal(ctx context.Context, l *store.TaskList) error {
	return k.store.DeleteList(ctx, l.ID)
}

func (k *listKind) unlinked(ctx context.Context) ([]*store.TaskList, error) {
	return k.store.UnlinkedLists(ctx, k.account)
}

func (k *listKind) saveShadow(ctx context.Context, s *service.TaskList) error {
	return k.store.SaveListShadow(ctx, k.account, s)
}

func (k *listKind) deleteShadow(ctx context.Context, s *service.TaskList) error {
	return k.store.DeleteListShadow(ctx, k.account, s)
}

func (k *listKind) createRemote(ctx context.Context, s *service.TaskList) (*service.TaskList, error) {
	return k.remote.CreateList(ctx, s)
}

func (k *listKind) updateRemote(ctx context.Context, s *service.TaskList) (*service.TaskList, error) {
	return k.remote.UpdateList(ctx, s)
}

func (k *listKind) deleteRemote(ctx context.Context, s *service.TaskList) error {
	return k.remote.DeleteList(ctx, s)
}

func (k *listKind) newLocal(s *service.TaskList) *store.TaskList {
	return &store.TaskList{Title: s.Title}
}

func (k *listKind) newShadow(l *store.TaskList) *service.TaskList {
	return &service.TaskList{
		Link:  service.Link{LocalID: l.ID},
		Title: l.Title,
	}
}
