// Package store provides the SQLite-backed reference-data storage for the
// dashboard's CRUD screens: document types, departments, and statuses.
//
// The store is also the in-repo producer for server-mode list views: List
// hands the engine's query shape to listsql and lets SQLite perform the
// filter, sort, and pagination stages.
package store
