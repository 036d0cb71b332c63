// Package queue implements the compile queue/broker consumed by the
// compiler core.
//
// Jobs are tagged with a Tier (optimization level), a Reason and a hot-count
// scheduling hint, then executed by a fixed pool of worker goroutines. The
// broker tracks a per-tier pending count covering both queued and in-flight
// jobs: a job leaves the count only after its CompileFunc has returned and
// the OnComplete hook has fired. The bootstrap coordinator's drain loop
// relies on that ordering — a queue size of zero means every accepted job is
// fully finished.
//
// The broker's internal scheduling (worker count, backlog, batching) is not
// part of the core's contract; the core only consumes Submit, QueueSize and
// TotalCompileTime.
package queue
