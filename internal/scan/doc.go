// Package scan holds scanner readings and the text format they arrive in.
//
// Input is a sequence of blocks separated by blank lines:
//
//	--- scanner 0 ---
//	404,-588,-901
//	528,-643,409
//
//	--- scanner 1 ---
//	686,422,578
//
// Each coordinate is relative to the scanner that observed it, in that
// scanner's own unknown orientation.
package scan
