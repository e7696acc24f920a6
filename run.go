package dmrgo

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sentinel errors returned by Run before any worker is spawned -- these
// are exactly the "failure in step 1 aborts before any worker exists"
// cases from the coordinator's contract.
var (
	ErrNoMappers  = errors.New("dmrgo: numMappers must be at least 1")
	ErrNoReducers = errors.New("dmrgo: numReducers must be at least 1")
	ErrEmptyArgv  = errors.New("dmrgo: argv must have at least one element")
)

// RunOption customizes a single Run call. The zero value of Run's options
// is the engine's only configuration surface -- there is no environment
// variable or config file the core reads, consistent with the job having
// no state beyond its own store.
type RunOption func(*runOptions)

type runOptions struct {
	log *zap.Logger
}

// WithLogger scopes structured status/debug logging for one Run call to
// the given logger. Without this option, Run uses a no-op logger, so the
// engine writes nothing anywhere by default.
func WithLogger(log *zap.Logger) RunOption {
	return func(o *runOptions) { o.log = log }
}

// Run executes one complete map/reduce job: it allocates a fresh store
// sized to numReducers partitions, fans numMappers mapper workers out
// over argv[1:] (argv[0] is conventionally the program name and is
// never passed to mapFn), joins them as a hard barrier, fans exactly
// numReducers reducer workers out (one per partition), joins those, and
// tears the store down. A second call to Run starts from a brand new
// store; nothing persists between calls.
//
// numReducers pins the partition count P; numMappers only sizes the
// mapper pool and has no bearing on P or the reducer count.
func Run(argv []string, mapFn MapperFunc, numMappers int, reduceFn ReducerFunc, numReducers int, partitionFn PartitionerFunc) error {
	if len(argv) < 1 {
		return ErrEmptyArgv
	}
	if numMappers < 1 {
		return ErrNoMappers
	}
	if numReducers < 1 {
		return ErrNoReducers
	}
	if partitionFn == nil {
		partitionFn = DefaultPartitioner
	}

	return run(argv, mapFn, numMappers, reduceFn, numReducers, partitionFn, runOptions{log: zap.NewNop()})
}

// RunWithOptions is Run plus engine-level options such as WithLogger.
func RunWithOptions(argv []string, mapFn MapperFunc, numMappers int, reduceFn ReducerFunc, numReducers int, partitionFn PartitionerFunc, opts ...RunOption) error {
	if len(argv) < 1 {
		return ErrEmptyArgv
	}
	if numMappers < 1 {
		return ErrNoMappers
	}
	if numReducers < 1 {
		return ErrNoReducers
	}
	if partitionFn == nil {
		partitionFn = DefaultPartitioner
	}

	o := runOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return run(argv, mapFn, numMappers, reduceFn, numReducers, partitionFn, o)
}

func run(argv []string, mapFn MapperFunc, numMappers int, reduceFn ReducerFunc, numReducers int, partitionFn PartitionerFunc, o runOptions) error {
	jobID := uuid.NewString()
	log := o.log.With(zap.String("job_id", jobID))

	s, err := newStore(numReducers)
	if err != nil {
		return errors.Wrap(err, "dmrgo: allocating store")
	}

	inputs := argv[1:]
	log.Info("job started", zap.Int("inputs", len(inputs)), zap.Int("mappers", numMappers), zap.Int("reducers", numReducers))

	emit := newEmitFunc(s, partitionFn)

	if len(inputs) > 0 {
		if err := runMappers(log, inputs, numMappers, mapFn, emit); err != nil {
			log.Error("map phase failed", zap.Error(err))
			return errors.Wrap(err, "dmrgo: map phase")
		}
	}

	log.Info("map phase complete, starting reduce phase")

	if err := runReducers(log, s, numReducers, reduceFn); err != nil {
		log.Error("reduce phase failed", zap.Error(err))
		return errors.Wrap(err, "dmrgo: reduce phase")
	}

	log.Info("job complete")
	return nil
}
