package cache

import (
	"testing"

	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/tui/events"
)

func drain(c *Cache) []events.TaskChangeMsg {
	var out []events.TaskChangeMsg
	for {
		select {
		case msg := <-c.Events():
			if change, ok := msg.(events.TaskChangeMsg); ok {
				out = append(out, change)
			}
		default:
			return out
		}
	}
}

func cachedTask(id, name string) *task.Task {
	t := task.New("Bridge", name)
	t.ID = id
	return t
}

func TestCacheUpsertEmitsCreateThenUpdate(t *testing.T) {
	c := New("test")
	c.SetTasks("Bridge", nil)

	c.UpsertTask(cachedTask("a", "Excavate"))
	c.UpsertTask(cachedTask("a", "Excavate east"))

	changes := drain(c)
	if len(changes) != 2 {
		t.Fatalf("expected 2 change events, got %d", len(changes))
	}
	if changes[0].Action != events.ChangeCreate {
		t.Fatalf("expected create, got %s", changes[0].Action)
	}
	if changes[1].Action != events.ChangeUpdate {
		t.Fatalf("expected update, got %s", changes[1].Action)
	}
}

func TestCacheApplySnapshotDiffs(t *testing.T) {
	c := New("test")
	a := cachedTask("a", "Excavate")
	b := cachedTask("b", "Pour")
	c.SetTasks("Bridge", []*task.Task{a, b})

	changed := a.Clone()
	changed.Progress = 50
	fresh := cachedTask("c", "Cure")
	c.ApplySnapshot(Snapshot{
		Project: "Bridge",
		Tasks:   []*task.Task{changed, fresh},
	})

	actions := map[events.ChangeType]int{}
	for _, ev := range drain(c) {
		actions[ev.Action]++
	}
	if actions[events.ChangeUpdate] != 1 {
		t.Fatalf("expected 1 update, got %d", actions[events.ChangeUpdate])
	}
	if actions[events.ChangeCreate] != 1 {
		t.Fatalf("expected 1 create, got %d", actions[events.ChangeCreate])
	}
	if actions[events.ChangeDelete] != 1 {
		t.Fatalf("expected 1 delete for removed task, got %d", actions[events.ChangeDelete])
	}
}

func TestCacheSnapshotSortsByOrder(t *testing.T) {
	c := New("test")
	a := cachedTask("a", "second")
	a.Order = 200000
	b := cachedTask("b", "first")
	b.Order = 100000
	c.SetTasks("Bridge", []*task.Task{a, b})

	snap := c.Snapshot()
	if len(snap.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(snap.Tasks))
	}
	if snap.Tasks[0].Name != "first" || snap.Tasks[1].Name != "second" {
		t.Fatalf("expected order first,second, got %s,%s", snap.Tasks[0].Name, snap.Tasks[1].Name)
	}
}
