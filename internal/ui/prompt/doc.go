// Package prompt asks the user before prj changes state it cannot restore,
// such as clearing the recent projects list.
//
// Prompts run a small bubbletea program on the given writer (stderr in
// practice). Callers check for a terminal first; see progress.IsTerminal.
package prompt
