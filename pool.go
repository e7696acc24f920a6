package dmrgo

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MapperFunc is invoked once per input item. It may call emit any number
// of times. A mapper worker runs a stride-interleaved subset of the
// input list; it never observes another mapper's emits.
type MapperFunc func(item string, emit EmitFunc)

// GetterFunc returns the next unread value for key in partition, in
// ascending byte-lex order, or reports false once key is exhausted or
// was never seen in that partition.
type GetterFunc func(key string, partition int) (string, bool)

// ReducerFunc is invoked exactly once per distinct key within the
// partition its owning worker is assigned. The reducer typically drains
// get(key, partition) until it returns false.
type ReducerFunc func(key string, get GetterFunc, partition int)

// runMappers fans inputs out across numMappers worker goroutines using
// stride partitioning (worker j takes inputs j, j+M, j+2M, ...), and
// joins them as a hard barrier: runMappers does not return until every
// worker has finished, successfully or not. It uses errgroup instead of
// a bare sync.WaitGroup so a panicking mapper surfaces as this call's
// error rather than crashing the process.
func runMappers(log *zap.Logger, inputs []string, numMappers int, mapFn MapperFunc, emit EmitFunc) error {
	var g errgroup.Group

	for j := 0; j < numMappers; j++ {
		worker := j
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("dmrgo: mapper worker %d panicked: %v", worker, r)
				}
			}()

			for i := worker; i < len(inputs); i += numMappers {
				log.Debug("mapping input", zap.Int("worker", worker), zap.String("item", inputs[i]))
				mapFn(inputs[i], emit)
			}
			return nil
		})
	}

	return g.Wait()
}

// runReducers spawns exactly numReducers = P workers, one per partition,
// each walking its partition's keys in ascending order and invoking
// reduceFn once per distinct key. It is the mirror image of runMappers:
// a hard barrier, one owning worker per shard, no cross-worker locking
// needed because ownership is disjoint.
func runReducers(log *zap.Logger, s *store, numReducers int, reduceFn ReducerFunc) error {
	if numReducers != s.numPartitions() {
		return errors.Errorf("dmrgo: numReducers (%d) must equal the partition count (%d)", numReducers, s.numPartitions())
	}

	get := func(key string, partition int) (string, bool) {
		return s.popNextValue(partition, key)
	}

	var g errgroup.Group

	for j := 0; j < numReducers; j++ {
		partition := j
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("dmrgo: reducer worker %d panicked: %v", partition, r)
				}
			}()

			s.forEachKey(partition, func(key string) {
				log.Debug("reducing key", zap.Int("partition", partition), zap.String("key", key))
				reduceFn(key, get, partition)
			})
			return nil
		})
	}

	return g.Wait()
}
