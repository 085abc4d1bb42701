// Package preflight implements startup environment checks: daemon
// reachability and directory access. Both the watch command and the status
// command use these to surface configuration problems before the poll loop
// starts failing.
package preflight
