// Package writer implements the batch writer persisting flip history.
//
// The writer is append-only: a flip row is inserted once per auction and
// never updated. Replays across restarts are absorbed by the conflict
// clause on the auction uuid.
package writer
