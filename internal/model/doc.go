// Package model defines shared data types used across the sniper.
//
// Conventions:
//   - Prices: float64 coins
//   - Timestamps: int64 milliseconds since Unix epoch, as the feed reports them
//   - IDs: auction uuids as 32-hex strings; the dashed form appears only on
//     FlipEvent, where it feeds view commands and deep links
package model
