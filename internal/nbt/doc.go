// Package nbt implements the Minecraft named binary tag format, the encoding
// used for the item payloads embedded in SkyBlock auction listings.
//
// Tags form a recursive tagged-variant tree (compound / list / string /
// numeric). Compounds preserve wire order, which matters when callers pick
// "the first" entry of a map. Access is through typed accessors that report
// misses as (zero, false) rather than panicking.
package nbt
