package dmrgo

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// keyEntry is one distinct key within a partition: its sorted, duplicate
// preserving value list, and the read cursor a reducer advances over it.
// The cursor is left at its zero value until reduce begins reading --
// map-phase inserts never touch it, which is observably identical to
// resetting it on every insert (no reader exists yet) but costs nothing.
type keyEntry struct {
	key    string
	values []string
	cursor int
}

// partition is one shard of the intermediate store: a sorted, unique-key
// slice guarded by its own mutex so P-way striping bounds emit contention.
type partition struct {
	mu   sync.Mutex
	keys []*keyEntry
}

// insert performs a sorted insert of value under key, creating the key
// entry if this is its first sighting in the partition. Both the key
// slice and each key's value slice stay sorted ascending by byte order,
// satisfying the store's ordering invariants without a post-barrier sort.
func (p *partition) insert(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := sort.Search(len(p.keys), func(i int) bool { return p.keys[i].key >= key })

	var entry *keyEntry
	if idx < len(p.keys) && p.keys[idx].key == key {
		entry = p.keys[idx]
	} else {
		entry = &keyEntry{key: key}
		p.keys = append(p.keys, nil)
		copy(p.keys[idx+1:], p.keys[idx:])
		p.keys[idx] = entry
	}

	vidx := sort.SearchStrings(entry.values, value)
	entry.values = append(entry.values, "")
	copy(entry.values[vidx+1:], entry.values[vidx:])
	entry.values[vidx] = value
}

// forEachKey visits every distinct key of the partition in ascending
// order. It must only be called by the partition's sole reduce-phase
// reader, after the map-phase barrier.
func (p *partition) forEachKey(visit func(key string)) {
	for _, e := range p.keys {
		visit(e.key)
	}
}

// popNextValue returns and advances the read cursor for key, or reports
// false once the key is exhausted or was never seen in this partition.
// No locking: by the time reduce runs, every mapper has joined and each
// partition has exactly one reader.
func (p *partition) popNextValue(key string) (string, bool) {
	idx := sort.Search(len(p.keys), func(i int) bool { return p.keys[i].key >= key })
	if idx >= len(p.keys) || p.keys[idx].key != key {
		return "", false
	}

	entry := p.keys[idx]
	if entry.cursor >= len(entry.values) {
		return "", false
	}

	v := entry.values[entry.cursor]
	entry.cursor++
	return v, true
}

// store is the array of P partitions created by Run and torn down when
// the job completes. Every emitted pair lives in exactly one partition,
// chosen by the job's partitioner over the key.
type store struct {
	partitions []partition
}

// newStore allocates a store with exactly numPartitions partitions. P is
// pinned to numReducers by Run -- see the reducer-pool contract.
func newStore(numPartitions int) (*store, error) {
	if numPartitions < 1 {
		return nil, errors.New("dmrgo: store requires at least one partition")
	}
	return &store{partitions: make([]partition, numPartitions)}, nil
}

func (s *store) numPartitions() int {
	return len(s.partitions)
}

func (s *store) insert(p int, key, value string) error {
	if p < 0 || p >= len(s.partitions) {
		return errors.Errorf("dmrgo: partitioner returned out-of-range partition %d (have %d)", p, len(s.partitions))
	}
	s.partitions[p].insert(key, value)
	return nil
}

func (s *store) forEachKey(p int, visit func(key string)) {
	s.partitions[p].forEachKey(visit)
}

func (s *store) popNextValue(p int, key string) (string, bool) {
	return s.partitions[p].popNextValue(key)
}
