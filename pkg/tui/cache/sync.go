package cache

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/gantt/pkg/store"
)

// BuildSnapshot loads the project catalog and the active project's tasks
// from persistence, assembling a cache snapshot that mirrors on-disk state.
func BuildSnapshot(ctx context.Context, p store.Persistence, proj string) (Snapshot, error) {
	if p == nil {
		return Snapshot{}, errors.New("cache: persistence unavailable")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return Snapshot{
		Projects: p.Projects(ctx, ""),
		Project:  proj,
		Tasks:    p.List(ctx, proj),
	}, nil
}

// SyncProject refreshes the cache from persistence and emits task diff
// events for anything that changed underneath the UI.
func (c *Cache) SyncProject(ctx context.Context, p store.Persistence, proj string) error {
	snapshot, err := BuildSnapshot(ctx, p, proj)
	if err != nil {
		return err
	}
	c.ApplySnapshot(snapshot)
	return nil
}

// WaitForEvent returns a command that blocks on the cache event channel and
// hands the next mutation event to the program. Re-issue it after every
// received message to keep the subscription alive.
func (c *Cache) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.eventCh
		if !ok {
			return nil
		}
		return msg
	}
}

// StoreEventMsg wraps a persistence watch event for the Bubble Tea loop.
type StoreEventMsg struct {
	Event store.Event
}

// Describe renders the watch event for logs.
func (m StoreEventMsg) Describe() string {
	return fmt.Sprintf(`type:%d project:%q`, m.Event.Type, m.Event.Project)
}

// WatchStore starts the persistence watcher and returns the channel plus a
// command that forwards the first event. The caller re-arms with
// WaitForStoreEvent after each message.
func WatchStore(ctx context.Context, p store.Persistence) (<-chan store.Event, tea.Cmd, error) {
	if p == nil {
		return nil, nil, errors.New("cache: persistence unavailable")
	}
	ch, err := p.Watch(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: start watcher: %w", err)
	}
	return ch, WaitForStoreEvent(ch), nil
}

// WaitForStoreEvent blocks on the watch channel and converts the next event
// into a StoreEventMsg.
func WaitForStoreEvent(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return StoreEventMsg{Event: ev}
	}
}

// RelevantTo reports whether the watch event affects the named project.
// Catalog invalidations affect every project.
func (m StoreEventMsg) RelevantTo(proj string) bool {
	if m.Event.Type == store.EventProjectsInvalidated {
		return true
	}
	return m.Event.Project == proj
}
