// Package scheduler is the decision-making engine of an install run. It
// repeatedly computes which records are ready (all dependencies Done, not
// yet dispatched), submits them to the worker pool, and drains completions
// until every record is Done or any record has Failed.
//
// The scheduler itself is single-threaded: it owns every record mutation and
// blocks only on TakeCompleted. True parallelism is delegated entirely to
// the pool. Terminal states are success (all Done), failure (first Failed
// record observed, remaining submissions stop), and the pre-checked
// unresolvable case where a dependency cycle would otherwise stall the drain
// loop forever.
package scheduler
