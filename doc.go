// Package rdiff computes the delta between two versions of the same byte
// stream using a content-defined, rolling-hash block matcher inspired by
// rsync.
//
// A Digest holds a compact per-block hash index for one version of a
// stream. DiffAndUpdate compares a new stream against that index in a
// single forward pass, producing an EditScript of byte-range inserts and
// deletes that reproduces the new stream when applied to the old one, while
// simultaneously rebuilding the Digest to describe the new stream.
//
// A separate refiner, FindStringDiff, computes a character-level minimal
// edit script between two strings using the Hirschberg algorithm; it is
// useful for refining a coarse, block-level diff into a human-readable one.
package rdiff
