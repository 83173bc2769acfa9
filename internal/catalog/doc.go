// Package catalog enumerates the articles of a review batch.
//
// Each article lives in its own subdirectory of the batch root and carries a
// descriptor (metadata.json, or metadata.yaml as an equivalent) written by the
// upstream extraction pipeline. Load parses every descriptor and keeps the
// articles whose event classification is not "no change". A malformed
// descriptor fails the whole batch: it signals an upstream failure that the
// reviewer should not silently work around.
//
// Date fields inside descriptors are the opposite: timeline entries and
// predicted dates routinely arrive incomplete, so they decode leniently and
// report whether they form a calendar date instead of failing the load.
package catalog
