// Package cluster runs the kthfreq pipeline. A Coordinator splits its input into a
// fixed number of Partitions, counts each Partition concurrently on its own
// worker goroutine, waits for every worker to finish, merges the partial counts and
// selects the K-th most frequent value.
//
// Workers share no mutable state. Each returns its own Accumulator, and all merging
// happens on the coordinating goroutine after every worker has finished. A failure in
// any worker fails the whole computation; nothing is retried.
package cluster
