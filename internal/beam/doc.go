// Package beam derives beam diagnostics from a detector frame.
//
// The pipeline recovers the beam center and the incident flux from a single
// beamstop-less exposure. It runs strictly forward, one artifact per stage:
//
//  1. Validity masking: pixels outside the sensor-valid interval [0, VMax]
//     are zeroed. Photon-counting detectors report large sentinel values for
//     masked, dead or saturated pixels; left in place they produce false
//     peaks and corrupted centroids.
//  2. Segmentation: a fraction-of-peak threshold max(1, k*peak) separates
//     the illuminated spot from background. The floor of 1 keeps an
//     all-zero frame from marking every pixel as foreground.
//  3. Region analysis: 8-connected component labeling over the foreground
//     mask; the primary region's unweighted and intensity-weighted centroids
//     are the beam center estimates.
//  4. Flux integration: masked intensity summed over a square region of
//     interest centered on the weighted centroid, clamped to the frame
//     bounds, divided by the exposure time.
//
// The masked frame is used consistently for both the weighted centroid and
// the flux sum, so invalid pixels inside the peak contribute nothing.
//
// A run either completes with a full Result or fails; no partial result is
// ever produced. Each run owns its arrays, so independent frames may be
// analyzed concurrently without coordination.
package beam
