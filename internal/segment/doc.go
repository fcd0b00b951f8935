// Package segment turns a decoded photo into labelled regions.
//
// The stages are used in this order by the coin pipeline:
//
//  1. Binarize: per-pixel band threshold of near-gray colors
//  2. NormalizeMarker / NormalizeCoins: dilate and erode passes that remove
//     speckle from a binary grid, in place
//  3. GrowRegions: 8-connected, tolerance banded labelling that keeps only
//     regions of at least a minimum area
//
// Morphology uses 4-connectivity and treats pixels outside the grid as
// neither foreground nor background: borders do not wrap and no padding
// value is assumed.
package segment
