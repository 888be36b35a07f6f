// Package tabular implements the generic list-view engine behind every
// docwatch table: filtering, single- and multi-column sorting, pagination
// with windowed page buttons, and row selection.
//
// The engine is pure and synchronous. It consumes opaque row values, column
// descriptors, and caller-supplied change handlers; it emits computed view
// slices and never fetches, persists, or validates anything itself.
//
// Each feature (filter, sort, pagination) independently operates in one of
// two modes:
//   - ModeClient: the engine computes the stage locally.
//   - ModeServer: the caller supplies already-processed data and the stage
//     is a pass-through; only the change handler fires on interaction.
//
// Selection has no mode - it is always caller-driven.
//
// The processing pipeline is fixed: filter, then sort, then paginate. Each
// stage consumes the previous stage's output.
package tabular
