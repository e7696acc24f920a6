// The standard map/reduce example: counting words across a set of files.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dgryski/dmrgo"
	"go.uber.org/zap"
)

func mapWords(item string, emit dmrgo.EmitFunc) {
	f, err := os.Open(item)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wordcount: opening", item, ":", err)
		return
	}
	defer f.Close()

	mapped := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		for _, word := range strings.Fields(strings.ToLower(sc.Text())) {
			emit(word, "1")
			mapped++
		}
	}

	dmrgo.IncrCounter("wordcount", "words mapped", mapped)
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
	fmt.Printf("%s\t%d\n", key, count)
}

func main() {
	numMappers := flag.Int("mappers", 4, "number of concurrent mapper workers")
	numReducers := flag.Int("reducers", 4, "number of concurrent reducer workers (also the partition count)")
	verbose := flag.Bool("v", false, "log job progress to stderr")

	flag.Parse()

	var opts []dmrgo.RunOption
	if *verbose {
		log, _ := zap.NewDevelopment()
		dmrgo.SetReporterLogger(log)
		opts = append(opts, dmrgo.WithLogger(log))
	}

	argv := append([]string{os.Args[0]}, flag.Args()...)

	if err := dmrgo.RunWithOptions(argv, mapWords, *numMappers, reduceWords, *numReducers, dmrgo.DefaultPartitioner, opts...); err != nil {
		fmt.Fprintln(os.Stderr, "wordcount:", err)
		os.Exit(1)
	}
}
