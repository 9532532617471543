// Package schedule runs the overdue sweep on a cron schedule (github.com/robfig/cron/v3).
//
// Runs never overlap: a tick that fires while the previous sweep is still running is skipped.
package schedule
