// Package cli runs a download batch without the GUI. URL lists come from
// files, doublestar globs or stdin; process output is printed to the
// terminal and optionally recorded as an HTML transcript.
package cli
