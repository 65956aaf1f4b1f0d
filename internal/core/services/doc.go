// Package services implements the driving port interfaces.
// Services contain the core business logic: the sync orchestrator, the
// pure record transformer, and the cron scheduler. They orchestrate calls
// to driven ports (adapters) and never touch the network themselves.
package services
