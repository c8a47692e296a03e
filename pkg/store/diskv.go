package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/gantt/pkg/project"
	"tableflip.dev/gantt/pkg/task"
)

// Persistence is the storage contract for schedules. The scheduling core
// never touches storage directly; it proposes mutations and interprets a
// returned error as failure.
type Persistence interface {
	MapAll(ctx context.Context) map[string][]*task.Task
	ListAll(ctx context.Context) []*task.Task
	List(ctx context.Context, proj string) []*task.Task
	Get(ctx context.Context, proj, id string) (*task.Task, error)
	Store(t *task.Task) error
	Delete(t *task.Task) error
	Projects(ctx context.Context, prefix string) []project.Meta
	EnsureProject(name string) error
	SetProjectRange(name string, start, end task.Date) error
	LoadPrefs(proj string) (project.Prefs, error)
	SavePrefs(proj string, p project.Prefs) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// ErrNotFound is returned when a task id does not exist in a project.
var ErrNotFound = errors.New("store: task not found")

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*task.Task, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	t := task.Task{}
	if err := json.Unmarshal(val, &t); err != nil {
		return nil, err
	}
	pk := keyToPathTransform(key)
	t.ID = pk.FileName
	if t.Project == "" {
		t.Project = fromProject(pk.Path[0])
	}
	return &t, nil
}

func (p *persistence) MapAll(ctx context.Context) map[string][]*task.Task {
	all := make(map[string][]*task.Task)
	for key := range p.d.Keys(ctx.Done()) {
		if indexKey(key) {
			continue
		}
		pk := keyToPathTransform(key)
		name := fromProject(pk.Path[0])

		t, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all[name] = append(all[name], t)
	}
	for name := range all {
		sortTasks(all[name])
	}
	return all
}

func (p *persistence) ListAll(ctx context.Context) []*task.Task {
	all := make([]*task.Task, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if indexKey(key) {
			continue
		}
		t, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, t)
	}
	sortTasks(all)
	return all
}

func (p *persistence) List(ctx context.Context, proj string) []*task.Task {
	encoded := toProject(proj)
	all := make([]*task.Task, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if indexKey(key) {
			continue
		}
		if pk := keyToPathTransform(key); pk.Path[0] == encoded {
			t, err := p.read(key)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
				continue
			}
			all = append(all, t)
		}
	}
	sortTasks(all)
	return all
}

func (p *persistence) Get(ctx context.Context, proj, id string) (*task.Task, error) {
	t, err := p.read(toKey(proj, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (p *persistence) Store(t *task.Task) error {
	if t.ID == "" {
		return errors.New("store: task id required")
	}
	if t.Project == "" {
		return errors.New("store: task project required")
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := p.d.Write(toKey(t.Project, t.ID), data); err != nil {
		return err
	}
	return p.EnsureProject(t.Project)
}

func (p *persistence) Delete(t *task.Task) error {
	return p.d.Erase(toKey(t.Project, t.ID))
}

func (p *persistence) Projects(ctx context.Context, prefix string) []project.Meta {
	all := make(map[string]project.Meta)
	if idx, err := p.loadProjectsIndex(); err == nil {
		for name, meta := range idx {
			all[name] = meta
		}
	} else {
		fmt.Fprintf(os.Stderr, "store: load projects index: %v\n", err)
	}

	// Projects only present as task buckets still surface in the catalog.
	for key := range p.d.Keys(ctx.Done()) {
		if indexKey(key) {
			continue
		}
		pk := keyToPathTransform(key)
		name := fromProject(pk.Path[0])
		if _, ok := all[name]; !ok {
			all[name] = project.Meta{Name: name}
		}
	}

	list := make([]project.Meta, 0, len(all))
	for name, meta := range all {
		if prefix == "" || strings.HasPrefix(name, prefix) {
			if meta.Name == "" {
				meta.Name = name
			}
			list = append(list, meta)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

func (p *persistence) EnsureProject(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("store: project name required")
	}
	index, err := p.loadProjectsIndex()
	if err != nil {
		return fmt.Errorf("store: load projects index: %w", err)
	}
	if _, ok := index[name]; ok {
		return nil
	}
	index[name] = project.Meta{Name: name}
	if err := p.saveProjectsIndex(index); err != nil {
		return fmt.Errorf("store: save projects index: %w", err)
	}
	return nil
}

func (p *persistence) SetProjectRange(name string, start, end task.Date) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("store: project name required")
	}
	index, err := p.loadProjectsIndex()
	if err != nil {
		return fmt.Errorf("store: load projects index: %w", err)
	}
	meta := index[name]
	meta.Name = name
	meta.Start = start
	meta.End = end
	if err := meta.Validate(); err != nil {
		return err
	}
	index[name] = meta
	if err := p.saveProjectsIndex(index); err != nil {
		return fmt.Errorf("store: save projects index: %w", err)
	}
	return nil
}

const (
	projectsIndexFile = ".projects.json"
	prefsFile         = ".prefs.json"
)

func (p *persistence) projectsIndexPath() string {
	return filepath.Join(p.basePath, projectsIndexFile)
}

func (p *persistence) loadProjectsIndex() (map[string]project.Meta, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.projectsIndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]project.Meta), nil
		}
		return nil, err
	}
	list, err := project.UnmarshalList(data)
	if err != nil {
		return nil, err
	}
	index := make(map[string]project.Meta, len(list))
	for _, meta := range list {
		name := strings.TrimSpace(meta.Name)
		if name == "" {
			continue
		}
		meta.Name = name
		index[name] = meta
	}
	return index, nil
}

func (p *persistence) saveProjectsIndex(idx map[string]project.Meta) error {
	if p.basePath == "" {
		return errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return err
	}
	list := make([]project.Meta, 0, len(idx))
	for name, meta := range idx {
		if meta.Name == "" {
			meta.Name = name
		}
		list = append(list, meta)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	data, err := project.MarshalList(list)
	if err != nil {
		return err
	}
	path := p.projectsIndexPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (p *persistence) prefsPath() string {
	return filepath.Join(p.basePath, prefsFile)
}

func (p *persistence) LoadPrefs(proj string) (project.Prefs, error) {
	data, err := os.ReadFile(p.prefsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return project.Prefs{}, nil
		}
		return project.Prefs{}, err
	}
	var all map[string]project.Prefs
	if err := json.Unmarshal(data, &all); err != nil {
		return project.Prefs{}, err
	}
	return all[proj], nil
}

func (p *persistence) SavePrefs(proj string, prefs project.Prefs) error {
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return err
	}
	all := make(map[string]project.Prefs)
	if data, err := os.ReadFile(p.prefsPath()); err == nil {
		_ = json.Unmarshal(data, &all)
	}
	all[proj] = prefs
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	tmp := p.prefsPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.prefsPath())
}

func sortTasks(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		left := tasks[i]
		right := tasks[j]
		if left == nil || right == nil {
			return left != nil
		}
		if left.Order != right.Order {
			return left.Order < right.Order
		}
		return left.ID < right.ID
	})
}

// indexKey reports whether a diskv key names one of the dot-file catalog
// or prefs files that share the base path with the task keyspace. The
// walker emits them with an empty leading path segment. They are not
// tasks and must stay out of every key walk.
func indexKey(key string) bool {
	pk := keyToPathTransform(key)
	return pk.Path[0] == "" ||
		strings.HasPrefix(pk.Path[0], ".") ||
		strings.HasPrefix(pk.FileName, ".")
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:1],
		FileName: strings.Join(parts[1:], "-"),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `project-id`. The project segment is base64 encoded (no
// dashes in the alphabet) so uuid task ids split off cleanly.
func toKey(proj, id string) string {
	return fmt.Sprintf("%s-%s", toProject(proj), id)
}

func toProject(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func fromProject(s string) string {
	name, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromProject: %s", err)
	}
	return string(name)
}
