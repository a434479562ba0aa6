// Package rtstat tracks low-overhead runtime statistics for channels and
// selects: per-case win counts (for diagnosing select fairness) and a
// streaming p99 wait-latency estimate, both safe to update from any
// number of goroutines.
//
// The latency estimate is maintained with the P² (Jain & Chlamtac, 1985)
// streaming quantile algorithm, fixed to a single quantile (p99) and
// folded directly into Stats' own fields rather than delegated to a
// separate estimator type.
package rtstat
