// Package ui provides terminal UI components for the unitcam-net CLI.
//
// This package uses Bubble Tea, Bubbles and Lipgloss to render bring-up
// progress. Output follows a "run once and exit" pattern: a header, a step
// list that fills in as negotiation events arrive, and a result box.
//
// # Components
//
//   - Header: command banner showing the operation and its parameters
//   - Progress: progress bar with step list
//   - Tracker: maps wifi.Event stages onto the bring-up steps
//   - Result: success, warning (self-hosted) or failure box
//
// # Live and plain output
//
// RunLive drives a Bubble Tea program when stdout is a terminal; the
// negotiator's observer forwards events with Program.Send. Printer.RunPlain
// prints each finished step as a line for pipes and log capture.
//
//	summary, err := ui.RunLive(ctx, header, func(ctx context.Context, observe wifi.Observer) ui.Summary {
//	    neg.Observer = observe
//	    res := bringup.Run(ctx, deps)
//	    return ui.Summary{Outcome: res.Outcome, Advertised: res.Advertised}
//	})
//
// # Logging Integration
//
// zap logging is silent unless UNITCAM_LOG_LEVEL or --log-level is set, so
// the curated UI output is displayed cleanly. Logs go to stderr.
package ui
