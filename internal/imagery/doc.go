// Package imagery lists an article's satellite image assets, derives each
// asset's acquisition date from its filename, and assembles the captioned
// gallery shown to the reviewer.
package imagery
