// Package dash is the terminal dashboard: a bubbletea program with one page
// per list view. Request, batch, and error tables run their engines in
// server mode and re-fetch through the upstream client on every change
// intent; the reference-data page loads rows from the local store once and
// lets its engine do the work client-side.
package dash
