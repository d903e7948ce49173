// Package price maintains the market price index: the lowest observed unit
// price per canonical item name, rebuilt wholesale from a full listing batch
// on reindex cycles and read-only in between.
package price
