package model

// Package model defines domain data structures shared by the batch pipeline,
// the UI and the CLI: download jobs, process outcomes, log blocks, and the
// batch status enum. Values are plain data and carry no synchronization.
