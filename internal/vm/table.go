package vm

// Table is an open-addressed, linear-probed map keyed by interned string
// identity. It backs globals, instance fields, and class method tables,
// and (uniquely) the intern set, where FindString and removeWhite give it
// weak-collection semantics over strings. A generic map can't express the
// tombstone probing, the byte-wise FindString walk, or the weak cleanup,
// which is why this is hand-rolled.
type entry struct {
	key   *ObjStringVal // nil key + Nil value = empty; nil key + true value = tombstone
	value Value
}

const tableMaxLoad = 0.75

// Table is the hash table itself.
type Table struct {
	count   int // occupied slots, including tombstones
	entries []entry
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{} }

func (t *Table) Len() int { return t.count }

// findEntry walks the probe sequence for key starting at its hash,
// stopping at the first truly empty slot or an exact match. A tombstone
// seen on the way is remembered so Set can reuse it.
func findEntry(entries []entry, key *ObjStringVal) *entry {
	capacity := uint32(len(entries))
	idx := key.Hash % capacity
	var tombstone *entry

	for {
		e := &entries[idx]
		if e.key == nil {
			if e.value.IsNil() {
				// Truly empty: return the tombstone we found earlier, if any.
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			// Tombstone.
			if tombstone == nil {
				tombstone = e
			}
		} else if e.key == key {
			return e
		}
		idx = (idx + 1) % capacity
	}
}

func (t *Table) adjustCapacity(capacity int) {
	newEntries := make([]entry, capacity)
	for i := range newEntries {
		newEntries[i] = entry{value: NilVal()}
	}

	newCount := 0
	for _, e := range t.entries {
		if e.key == nil {
			continue
		}
		dest := findEntry(newEntries, e.key)
		dest.key = e.key
		dest.value = e.value
		newCount++
	}

	t.entries = newEntries
	t.count = newCount
}

// Set inserts or overwrites key. It returns true iff key was not already
// present; a tombstone-occupied slot still counts as "new" for this return
// value.
func (t *Table) Set(key *ObjStringVal, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		capacity := growCapacity(len(t.entries))
		t.adjustCapacity(capacity)
	}

	e := findEntry(t.entries, key)
	isNewKey := e.key == nil
	if isNewKey && e.value.IsNil() {
		t.count++
	}

	e.key = key
	e.value = value
	return isNewKey
}

func growCapacity(cur int) int {
	if cur < 8 {
		return 8
	}
	return cur * 2
}

// Get looks up key, returning (value, true) on a hit.
func (t *Table) Get(key *ObjStringVal) (Value, bool) {
	if len(t.entries) == 0 {
		return Value{}, false
	}
	e := findEntry(t.entries, key)
	if e.key == nil {
		return Value{}, false
	}
	return e.value, true
}

// Delete installs a tombstone for key, returning true iff key was present.
func (t *Table) Delete(key *ObjStringVal) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := findEntry(t.entries, key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = BoolVal(true) // tombstone marker
	return true
}

// FindString walks the same probe sequence as findEntry, comparing raw
// bytes/length/hash directly instead of pointer identity. It is used
// exclusively by the intern set to discover whether an equal string
// already exists before allocating a new one.
func (t *Table) FindString(chars string, hash uint32) *ObjStringVal {
	if len(t.entries) == 0 {
		return nil
	}
	capacity := uint32(len(t.entries))
	idx := hash % capacity

	for {
		e := &t.entries[idx]
		if e.key == nil {
			if e.value.IsNil() {
				return nil
			}
		} else if e.key.Hash == hash && e.key.Chars == chars {
			return e.key
		}
		idx = (idx + 1) % capacity
	}
}

// Keys returns every live key's characters, in unspecified (bucket) order.
func (t *Table) Keys() []string {
	out := make([]string, 0, t.count)
	t.Each(func(key *ObjStringVal, _ Value) {
		out = append(out, key.Chars)
	})
	return out
}

// Each calls f for every live (non-tombstone) entry.
func (t *Table) Each(f func(key *ObjStringVal, value Value)) {
	for _, e := range t.entries {
		if e.key != nil {
			f(e.key, e.value)
		}
	}
}

// mark marks every live key and value for the GC.
func (t *Table) mark(gc *gcState) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil {
			gc.markObject(e.key)
			gc.markValue(e.value)
		}
	}
}

// removeWhite deletes entries whose key object didn't survive the mark
// phase, making the intern table a weak collection over strings.
func (t *Table) removeWhite() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil && !e.key.marked {
			e.key = nil
			e.value = BoolVal(true)
		}
	}
}
