package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ConnectionResult is the terminal state of one connection's sync attempt.
type ConnectionResult struct {
	// ConnectionID identifies the tenant connection.
	ConnectionID string
	// Err is nil on success, otherwise the captured tenant-scoped error.
	Err error
}

// RunReport summarises one sync invocation. It is ephemeral: built per run,
// logged, never persisted.
type RunReport struct {
	results []ConnectionResult
}

// NewRunReport builds a report from per-connection results.
func NewRunReport(results []ConnectionResult) *RunReport {
	return &RunReport{results: results}
}

// Succeeded returns the number of connections that synced successfully.
func (r *RunReport) Succeeded() int {
	n := 0
	for _, res := range r.results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of connections that ended in a captured error.
func (r *RunReport) Failed() int {
	return len(r.results) - r.Succeeded()
}

// Total returns the number of connections processed.
func (r *RunReport) Total() int {
	return len(r.results)
}

// Failures returns captured errors keyed by connection ID.
func (r *RunReport) Failures() map[string]error {
	failures := make(map[string]error)
	for _, res := range r.results {
		if res.Err != nil {
			failures[res.ConnectionID] = res.Err
		}
	}
	return failures
}

// Summary renders a human-readable report, one line per failed connection.
func (r *RunReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "synced %d of %d connections", r.Succeeded(), r.Total())

	failures := r.Failures()
	ids := make([]string, 0, len(failures))
	for id := range failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "\nconnection %s: %v", id, failures[id])
	}
	return b.String()
}
