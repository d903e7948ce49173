// Package item decodes the opaque base64 payload of a listing into a
// structured record and derives the canonical name used to bucket listings
// for pricing.
//
// Payloads arrive in one of two wire encodings: gzip-wrapped NBT or raw NBT.
// Decode tries both, in that order, and reports both causes when neither
// parses.
package item
