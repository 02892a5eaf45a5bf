package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const keyPrefix = "nodebook:"

// syncedKey marks a mirror that holds records fetched from the backend.
// Such a mirror is never seeded again.
const syncedKey = keyPrefix + "synced"

const (
	nsConcepts    = "concepts"
	nsConnections = "connections"
	nsCards       = "cards"
	nsReviews     = "reviews"
	nsNotes       = "notes"
	nsHistory     = "learning_history"
)

var namespaces = []string{nsConcepts, nsConnections, nsCards, nsReviews, nsNotes, nsHistory}

// Key returns the store key of a resource namespace.
func Key(namespace string) string {
	return keyPrefix + namespace
}

// Local implements every resource operation against the Store. Each
// namespace holds the JSON array of its records. A namespace that has never
// been written is seeded with sample data on first read, as long as nothing
// from the backend has been remembered yet.
type Local struct {
	store  *Store
	seed   *Seed
	noSeed bool
	now    func() time.Time
	log    *zap.Logger

	mu sync.Mutex
}

type Option func(*Local)

// WithSeed replaces the default sample data.
func WithSeed(s Seed) Option {
	return func(l *Local) { l.seed = &s }
}

// WithoutSeed leaves never written namespaces empty.
func WithoutSeed() Option {
	return func(l *Local) { l.noSeed = true }
}

func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Local) { l.log = log }
}

func NewLocal(store *Store, opts ...Option) *Local {
	l := &Local{
		store: store,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.noSeed {
		l.seed = nil
	} else if l.seed == nil {
		s := DefaultSeed(l.now())
		l.seed = &s
	}
	l.log = l.log.Named("mirror")
	return l
}

// read loads a namespace. Callers hold l.mu.
func read[T any](ctx context.Context, l *Local, ns string) ([]T, error) {
	raw, ok, err := l.store.Get(ctx, Key(ns))
	if err != nil {
		return nil, err
	}
	if !ok {
		items, err := initial[T](ctx, l, ns)
		if err != nil {
			return nil, err
		}
		if err := write(ctx, l, ns, items); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			l.log.Info("seeded local mirror", zap.String("namespace", ns), zap.Int("records", len(items)))
		}
		return items, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ns, err)
	}
	return items, nil
}

// stored loads a namespace without seeding it. Callers hold l.mu.
func stored[T any](ctx context.Context, l *Local, ns string) ([]T, error) {
	raw, ok, err := l.store.Get(ctx, Key(ns))
	if err != nil || !ok {
		return []T{}, err
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ns, err)
	}
	return items, nil
}

// initial is the content of a never written namespace.
func initial[T any](ctx context.Context, l *Local, ns string) ([]T, error) {
	if l.seed == nil {
		return []T{}, nil
	}
	_, synced, err := l.store.Get(ctx, syncedKey)
	if err != nil {
		return nil, err
	}
	if synced {
		return []T{}, nil
	}
	return seeded[T](l, ns), nil
}

func seeded[T any](l *Local, ns string) []T {
	if l.seed == nil {
		return []T{}
	}
	src, _ := l.seed.namespace(ns).([]T)
	return append([]T{}, src...)
}

func encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func write[T any](ctx context.Context, l *Local, ns string, items []T) error {
	raw, err := encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ns, err)
	}
	return l.store.Put(ctx, Key(ns), raw)
}

// batch collects several namespace writes to commit together.
type batch map[string][]byte

func add[T any](b batch, ns string, items []T) error {
	raw, err := encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ns, err)
	}
	b[Key(ns)] = raw
	return nil
}

func (l *Local) commit(ctx context.Context, b batch) error {
	return l.store.PutAll(ctx, b)
}

func find[T any](items []T, id uint, idOf func(T) uint) (int, bool) {
	for i, it := range items {
		if idOf(it) == id {
			return i, true
		}
	}
	return -1, false
}

// nextID is one past the highest id in use, or 1.
func nextID[T any](items []T, idOf func(T) uint) uint {
	var highest uint
	for _, it := range items {
		if id := idOf(it); id > highest {
			highest = id
		}
	}
	return highest + 1
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// remember upserts records fetched from the backend, or replaces the whole
// namespace with them. Records are merged into what is stored, never into
// sample data, and the mirror is marked as synced.
func remember[T any](ctx context.Context, l *Local, ns string, items []T, replace bool, idOf func(T) uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := batch{}
	first, err := l.beginSync(ctx, b)
	if err != nil {
		return err
	}

	merged := items
	if !replace {
		existing := []T{}
		if !first {
			existing, err = stored[T](ctx, l, ns)
			if err != nil {
				return err
			}
		}
		for _, it := range items {
			if i, ok := find(existing, idOf(it), idOf); ok {
				existing[i] = it
			} else {
				existing = append(existing, it)
			}
		}
		sort.SliceStable(existing, func(i, j int) bool {
			return idOf(existing[i]) < idOf(existing[j])
		})
		merged = existing
	}

	if err := add(b, ns, merged); err != nil {
		return err
	}
	return l.commit(ctx, b)
}

// beginSync stamps the synced marker into b. On the first sync every
// namespace is emptied too: whatever it held was built on sample data, and
// sample ids must not mix with backend ids. Callers hold l.mu.
func (l *Local) beginSync(ctx context.Context, b batch) (first bool, err error) {
	_, synced, err := l.store.Get(ctx, syncedKey)
	if err != nil {
		return false, err
	}
	if !synced {
		for _, ns := range namespaces {
			if err := add(b, ns, []struct{}{}); err != nil {
				return false, err
			}
		}
		l.log.Info("local mirror now follows the backend, sample data dropped")
	}
	raw, err := json.Marshal(l.now().UTC())
	if err != nil {
		return false, err
	}
	b[syncedKey] = raw
	return !synced, nil
}
