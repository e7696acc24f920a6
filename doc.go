/*
Package dmrgo is an in-process map/reduce execution engine.

It runs a user-supplied map function, reduce function and partitioner over
a list of input items (conventionally file paths) entirely in shared
memory: no cluster, no scheduler, no persistence beyond a single Run call.
Map output is held in a partitioned, always-sorted intermediate store so
that the reduce phase never needs a sort step of its own.

A job looks like:

	func mapWords(item string, emit dmrgo.EmitFunc) {
		f, err := os.Open(item)
		if err != nil {
			return
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			for _, w := range strings.Fields(sc.Text()) {
				emit(w, "1")
			}
		}
	}

	func reduceWords(key string, get dmrgo.GetterFunc, partition int) {
		count := 0
		for {
			v, ok := get(key, partition)
			if !ok {
				break
			}
			n, _ := strconv.Atoi(v)
			count += n
		}
		fmt.Println(key, count)
	}

	err := dmrgo.Run(os.Args, mapWords, 4, reduceWords, 4, dmrgo.DefaultPartitioner)

The example job in cmd/wordcount is built the same way; it also lowercases
each word before emitting it and prints "key\tcount" lines.

This is an educational realization of the two-phase Map/Shuffle/Reduce
pattern, not a distributed system: a crashing map or reduce callback
aborts the whole Run call, and there is no fault tolerance across
workers.
*/
package dmrgo
