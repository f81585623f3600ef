// Package kthfreq contains the core types of kthfreq, a library for finding the K-th most
// frequent value in a collection of integers by counting partitions of the data in parallel.
// This root package defines the values which flow between the stages of a computation
// (Partitions, FrequencyTables, RankedEntries) as well as the extension points used to
// customize it (Accumulators and MetricsCollectors). The pipeline itself lives in package cluster.
package kthfreq
