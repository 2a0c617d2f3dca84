// Package ui implements the interactive terminal widget.
//
// The widget mirrors the browser widget: it polls the orchestrator for the
// current track on a fixed cadence, renders a now-playing card with a track
// progress bar, and maps the up/down keys onto volume mutations. All session
// handling goes through the same [session.Orchestrator] as the HTTP routes,
// backed by the SQLite credential store instead of cookies.
package ui
