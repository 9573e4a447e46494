// Package doctor provides diagnostic and repair functionality for ftree's
// configuration and saved expansion state.
//
// The doctor package detects and optionally repairs issues including:
//
//   - Config issues: a global config or a root's .ftree.toml that fails to
//     parse or validate. These are reported but never rewritten.
//
//   - State file issues: a state file that is not valid JSON, and duplicate
//     entries for the same root.
//
//   - Stale issues: saved roots that no longer exist on disk, and expanded
//     keys whose files are gone.
//
// # Usage
//
//	err := doctor.Run(ctx, doctor.Options{ConfigPath: p, StatePath: s})            // check only
//	err := doctor.Run(ctx, doctor.Options{ConfigPath: p, StatePath: s, Fix: true}) // check and fix
//
// Each [Issue] includes a description and the fix action --fix applies.
package doctor
