package dmrgo

import (
	"bufio"

	"github.com/pkg/errors"
)

// EmitFunc publishes one key/value pair from a mapper into the job's
// intermediate store. It may be called any number of times, from any
// mapper worker, with any key/value strings; the store copies both into
// its own memory, so the caller is free to reuse its buffers afterward.
type EmitFunc func(key, value string)

// newEmitFunc binds an EmitFunc to one job's store and partitioner. This
// is the spec's "emit(key, value)" contract realized as a closure instead
// of a package-level function over process-global state, so that two
// concurrent Run calls never share a store.
func newEmitFunc(s *store, partitionFn PartitionerFunc) EmitFunc {
	return func(key, value string) {
		p := partitionFn(key, s.numPartitions())
		if err := s.insert(p, key, value); err != nil {
			panic(errors.Wrap(err, "dmrgo: emit"))
		}
	}
}

// Emitter is the convenience sink a reduce function may use to hand its
// final output somewhere -- a file, stdout, /dev/null. It plays no part
// in the map-phase emit path above; Reduce callbacks are free to ignore
// it entirely and return their result some other way.
type Emitter interface {
	Emit(key string, value string)
	Flush()
}

// printEmitter writes tab-separated "key\tvalue\n" records, the same
// tab-separated wire shape Hadoop-streaming emitters use.
type printEmitter struct {
	w *bufio.Writer
}

// NewPrintEmitter wraps w as an Emitter.
func NewPrintEmitter(w *bufio.Writer) Emitter {
	return &printEmitter{w: w}
}

func (e *printEmitter) Emit(key, value string) {
	e.w.WriteString(key)
	e.w.WriteByte('\t')
	e.w.WriteString(value)
	e.w.WriteByte('\n')
}

func (e *printEmitter) Flush() {
	e.w.Flush()
}

// nullEmitter discards everything; useful for benchmarking a reduce
// function without output formatting in the loop.
type nullEmitter struct{}

// NewNullEmitter returns an Emitter that discards all output.
func NewNullEmitter() Emitter { return &nullEmitter{} }

func (*nullEmitter) Emit(string, string) {}
func (*nullEmitter) Flush()              {}
