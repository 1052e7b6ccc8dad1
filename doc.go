// Package dataslim provides a tabular dataset memory optimizer. It inspects
// columnar datasets and suggests or applies memory-reducing representation
// changes per column.
//
// # Architecture
//
// Two independent analysis passes run over the same dataset:
//
// 1. Numeric Optimizer (pkg/optimizer): for each numeric column, finds the
// narrowest integer or floating-point width that loses no information for
// the observed value range, and applies it. A companion string pass
// dictionary-encodes low-cardinality text columns.
//
// 2. Special-Column Classifier (pkg/classifier): applies an ordered set of
// pattern and cardinality rules to label columns as identifiers,
// coordinates, text entities or categorical data, and reports the result
// without mutating anything.
//
// The passes share no mutable state and may run in either order. The
// columnar container (pkg/dataset) stores values in width-exact buffers
// with Arrow-style validity bitmaps, so narrowing an integer column never
// loses missing-value positions.
//
// The dataslim CLI (cmd/dataslim) loads CSV input, runs the passes, and can
// export the optimized dataset in Arrow IPC format.
package dataslim
