// Package geom provides the integer 3D geometry used by registration.
//
// Points are exact integer triples. Orientations are signed axis
// permutations: the 24 rotations of a cube, or all 48 when reflections are
// admitted. Nothing in this package allocates shared mutable state; the
// orientation sets are built once and handed out as read-only slices.
package geom
