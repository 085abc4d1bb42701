// Package devmon watches udev netlink events for the capture device's USB
// network interface so the watcher can react to attach and detach immediately
// instead of discovering connectivity changes through failed polls.
package devmon
