// Package watcher reruns a build when sources change.
//
// A Watcher registers every directory below a source root with fsnotify,
// skipping the build directory and hidden directories, and calls its
// Handler after changes have been quiet for a debounce delay.
package watcher
