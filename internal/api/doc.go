// Package api provides the Hypixel SkyBlock REST client used to pull
// auction house snapshots.
//
// Endpoints:
//   - /skyblock/auctions: paged auction snapshot (page query parameter)
//   - /key: API key status, used as a startup sanity check
//
// The feed is snapshot oriented: every page of every cycle is a full
// re-listing, not a delta.
package api
