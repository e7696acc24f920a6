package dmrgo

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countWords is a MapperFunc that treats each input item as a line of
// text (rather than a file path) so tests don't need a filesystem.
func countWords(item string, emit EmitFunc) {
	for _, w := range strings.Fields(item) {
		emit(w, "1")
	}
}

func sumReducer(results *sync.Map) ReducerFunc {
	return func(key string, get GetterFunc, partition int) {
		sum := 0
		for {
			v, ok := get(key, partition)
			if !ok {
				break
			}
			n, _ := strconv.Atoi(v)
			sum += n
		}
		results.Store(key, sum)
	}
}

func TestRunSingleFileWordCount(t *testing.T) {
	var results sync.Map

	err := Run([]string{"prog", "a b a c b a"}, countWords, 1, sumReducer(&results), 2, DefaultPartitioner)
	require.NoError(t, err)

	assertCount(t, &results, "a", 3)
	assertCount(t, &results, "b", 2)
	assertCount(t, &results, "c", 1)
}

func TestRunTwoFilesTwoMappers(t *testing.T) {
	var results sync.Map

	mapFn := func(item string, emit EmitFunc) {
		for _, w := range strings.Fields(item) {
			emit(w, "1")
		}
	}

	err := Run([]string{"prog", "x y", "y z"}, mapFn, 2, sumReducer(&results), 2, DefaultPartitioner)
	require.NoError(t, err)

	assertCount(t, &results, "x", 1)
	assertCount(t, &results, "y", 2)
	assertCount(t, &results, "z", 1)
}

func TestRunEmptyInputList(t *testing.T) {
	reduceCalls := 0
	reduceFn := func(key string, get GetterFunc, partition int) {
		reduceCalls++
	}
	mapCalls := 0
	mapFn := func(item string, emit EmitFunc) {
		mapCalls++
	}

	err := Run([]string{"prog"}, mapFn, 2, reduceFn, 3, DefaultPartitioner)
	require.NoError(t, err)
	assert.Equal(t, 0, mapCalls)
	assert.Equal(t, 0, reduceCalls)
}

func TestRunSingleKeyManyValuesOrdered(t *testing.T) {
	var gotValues []string
	var gotCalls int

	mapFn := func(item string, emit EmitFunc) {
		for _, v := range strings.Fields(item) {
			emit("k", v)
		}
	}
	reduceFn := func(key string, get GetterFunc, partition int) {
		gotCalls++
		for {
			v, ok := get(key, partition)
			if !ok {
				break
			}
			gotValues = append(gotValues, v)
		}
	}

	err := Run([]string{"prog", "v1 v3", "v2"}, mapFn, 2, reduceFn, 1, DefaultPartitioner)
	require.NoError(t, err)

	assert.Equal(t, 1, gotCalls)
	assert.Equal(t, []string{"v1", "v2", "v3"}, gotValues)
}

func TestRunUnknownKeyDuringReduce(t *testing.T) {
	var otherStillReadable bool

	mapFn := func(item string, emit EmitFunc) {
		emit("present", "1")
	}
	reduceFn := func(key string, get GetterFunc, partition int) {
		_, ok := get("missing", partition)
		assert.False(t, ok)

		v, ok := get("present", partition)
		otherStillReadable = ok && v == "1"
	}

	err := Run([]string{"prog", "line"}, mapFn, 1, reduceFn, 1, DefaultPartitioner)
	require.NoError(t, err)
	assert.True(t, otherStillReadable)
}

func TestRunSinglePartitionKeysOrdered(t *testing.T) {
	var keysInOrder []string

	mapFn := func(item string, emit EmitFunc) {
		for _, w := range strings.Fields(item) {
			emit(w, "1")
		}
	}
	reduceFn := func(key string, get GetterFunc, partition int) {
		keysInOrder = append(keysInOrder, key)
		for {
			if _, ok := get(key, partition); !ok {
				break
			}
		}
	}

	err := Run([]string{"prog", "c a b a c"}, mapFn, 1, reduceFn, 1, DefaultPartitioner)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keysInOrder)
}

func TestRunRejectsInvalidArguments(t *testing.T) {
	noop := func(string, EmitFunc) {}
	noopReduce := func(string, GetterFunc, int) {}

	assert.ErrorIs(t, Run(nil, noop, 1, noopReduce, 1, nil), ErrEmptyArgv)
	assert.ErrorIs(t, Run([]string{"prog"}, noop, 0, noopReduce, 1, nil), ErrNoMappers)
	assert.ErrorIs(t, Run([]string{"prog"}, noop, 1, noopReduce, 0, nil), ErrNoReducers)
}

func TestRunPartitioningProperty(t *testing.T) {
	var mu sync.Mutex
	seenPartitionOf := map[string]int{}

	mapFn := func(item string, emit EmitFunc) {
		for _, w := range strings.Fields(item) {
			emit(w, "1")
		}
	}
	const numReducers = 4
	reduceFn := func(key string, get GetterFunc, partition int) {
		mu.Lock()
		seenPartitionOf[key] = partition
		mu.Unlock()
		for {
			if _, ok := get(key, partition); !ok {
				break
			}
		}
	}

	err := Run([]string{"prog", "alpha beta gamma delta epsilon alpha beta"}, mapFn, 3, reduceFn, numReducers, DefaultPartitioner)
	require.NoError(t, err)

	for key, partition := range seenPartitionOf {
		assert.Equal(t, DefaultPartitioner(key, numReducers), partition)
	}
}

func assertCount(t *testing.T, results *sync.Map, key string, want int) {
	t.Helper()
	v, ok := results.Load(key)
	require.True(t, ok, "missing key %q", key)
	assert.Equal(t, want, v)
}
