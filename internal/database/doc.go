// Package database provides the PostgreSQL connection pool backing the
// optional flip-history writer.
package database
