package querybuilder

// Folder collapses fanned-out joined rows into one entity per root key,
// preserving the order in which roots were first seen.
type Folder[K comparable, T any] struct {
	keys  []K
	items map[K]*T
}

func NewFolder[K comparable, T any]() *Folder[K, T] {
	return &Folder[K, T]{items: make(map[K]*T)}
}

// Upsert returns the entity for key, creating it with init on first sight
func (f *Folder[K, T]) Upsert(key K, init func() T) *T {
	if item, ok := f.items[key]; ok {
		return item
	}
	item := init()
	f.items[key] = &item
	f.keys = append(f.keys, key)
	return &item
}

// Get returns the entity for key if it was folded
func (f *Folder[K, T]) Get(key K) (*T, bool) {
	item, ok := f.items[key]
	return item, ok
}

func (f *Folder[K, T]) Len() int {
	return len(f.keys)
}

// Keys returns root keys in first-seen order
func (f *Folder[K, T]) Keys() []K {
	out := make([]K, len(f.keys))
	copy(out, f.keys)
	return out
}

// Values returns the folded entities in first-seen order
func (f *Folder[K, T]) Values() []T {
	out := make([]T, 0, len(f.keys))
	for _, k := range f.keys {
		out = append(out, *f.items[k])
	}
	return out
}

// UniqueList accumulates nested children, ignoring ids it has already seen
type UniqueList[K comparable, T any] struct {
	seen  map[K]struct{}
	items []T
}

func NewUniqueList[K comparable, T any]() *UniqueList[K, T] {
	return &UniqueList[K, T]{seen: make(map[K]struct{})}
}

// Add appends item unless key was added before. Reports whether it was appended.
func (u *UniqueList[K, T]) Add(key K, item T) bool {
	if _, ok := u.seen[key]; ok {
		return false
	}
	u.seen[key] = struct{}{}
	u.items = append(u.items, item)
	return true
}

func (u *UniqueList[K, T]) Len() int {
	return len(u.items)
}

// Items returns a copy of the accumulated children. Never nil.
func (u *UniqueList[K, T]) Items() []T {
	out := make([]T, len(u.items))
	copy(out, u.items)
	return out
}
