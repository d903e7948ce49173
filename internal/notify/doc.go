// Package notify delivers flip events to the outside world: a Discord
// webhook, a websocket broadcast server, and a buffered feed into the
// optional flip-history writer.
package notify
