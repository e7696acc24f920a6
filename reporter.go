// Status and counter reporting for a running job.
//
// Hadoop-streaming jobs report progress by writing protocol lines
// ("reporter:status:...", "reporter:counter:...") to stderr for the
// framework to parse. This engine has no such supervisor, so the same
// small API (Statusln, Statusf, IncrCounter) logs structured fields
// through zap and keeps running totals in atomic counters, instead of
// writing a line protocol nobody reads.
package dmrgo

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

var reporterLog = zap.NewNop()

// SetReporterLogger directs Statusln, Statusf and IncrCounter's log
// output. Call it once before Run if a job wants visibility into
// mapper/reducer progress; the default is silent.
func SetReporterLogger(log *zap.Logger) {
	reporterLog = log
}

// Statusln logs a job status line built from fmt.Sprintln-style args.
func Statusln(a ...interface{}) {
	reporterLog.Info(fmt.Sprintln(a...))
}

// Statusf logs a job status line built from fmt.Sprintf-style args.
func Statusf(format string, a ...interface{}) {
	reporterLog.Info(fmt.Sprintf(format, a...))
}

var (
	countersMu sync.Mutex
	counters   = map[string]*int64{}
)

// IncrCounter adds amount to the named group/counter pair and logs the
// new running total, humanized (the same group/counter idiom
// Hadoop-streaming jobs report, minus the line protocol).
func IncrCounter(group, counter string, amount int) {
	name := group + "/" + counter

	countersMu.Lock()
	c, ok := counters[name]
	if !ok {
		var zero int64
		c = &zero
		counters[name] = c
	}
	countersMu.Unlock()

	total := atomic.AddInt64(c, int64(amount))
	reporterLog.Debug("counter",
		zap.String("group", group),
		zap.String("counter", counter),
		zap.Int("delta", amount),
		zap.String("total", humanize.Comma(total)),
	)
}

// CounterValue returns the current running total for group/counter, or
// zero if it has never been incremented.
func CounterValue(group, counter string) int64 {
	name := group + "/" + counter

	countersMu.Lock()
	c, ok := counters[name]
	countersMu.Unlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(c)
}

// resetCounters clears all counters; used between tests so one job's
// counts don't bleed into the next.
func resetCounters() {
	countersMu.Lock()
	counters = map[string]*int64{}
	countersMu.Unlock()
}
