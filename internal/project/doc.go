// Package project defines the project record shared by the scanner, filter,
// ranking and registry packages, and the marker-based detector that decides
// whether a directory is a project at all.
//
// # Detection
//
// A directory is classified by probing an ordered list of marker files
// ([DefaultMarkers]). The first marker found decides the [Type]; later,
// possibly more specific markers are not consulted. Probe failures (for
// example permission errors) count as "marker absent".
//
// [Detector.Classify] races detection against a deadline. A directory that
// cannot be classified in time is reported as unclassified rather than as an
// error, so one slow network mount never stalls a whole scan.
package project
