// Package store reads and writes hierarchical measurement files.
//
// A measurement is a tree of groups and datasets addressed by slash-
// separated paths, e.g. /entry/instrument/detector/count_time. Datasets
// carry a value, a physical unit, a declared data type and free-form
// attributes. The on-disk format is YAML; a dataset is a mapping with the
// reserved keys "value", "units", "dtype" and "attrs", and everything else
// is a group.
//
// Derived results are written back through the Attacher interface, which
// decouples the analysis pipeline entirely from the persistence format:
// attaching an Element creates intermediate groups as needed and never
// fails because sibling datasets already exist.
package store
