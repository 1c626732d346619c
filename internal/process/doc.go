// Package process isolates external converter processes in their own process
// group and tears the whole group down on cancellation.
package process
