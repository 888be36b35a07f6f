// Package listsql compiles the tabular engine's query shape (search text,
// priority-ordered sorts, page) into parameterized SQLite statements.
//
// This is how docwatch serves "server mode" tables from its own store: the
// database performs filter, sort, and pagination, and the engine only
// renders the returned page.
//
// All values are parameterized, never interpolated. Every statement carries
// an ORDER BY with a deterministic id tiebreaker so identical queries
// return identical row orders.
package listsql
