package batch

// Package batch implements the download pipeline: turning pasted URLs into
// numbered jobs, running each job as one downloader process on a bounded
// worker pool, and aggregating outcomes in a single controller loop that
// owns all batch state and drives the view.
