// Package registration resolves every scanner into one global frame.
//
// Scanner 0 defines the frame. Every other scanner is placed by finding an
// orientation and a translation under which at least Threshold of its
// beacons coincide with beacons of a scanner that is already resolved.
//
// Beacon correspondences are unlabelled, so the engine votes: for a fixed
// orientation, every (resolved beacon, reoriented candidate beacon) pair
// proposes the translation that would map one onto the other. A true overlap
// makes many pairs propose the same translation; wrong orientations and
// wrong pairings scatter. The first translation to collect Threshold votes
// wins.
//
// ALGORITHM:
//
// Registration is a fixed-point iteration over passes:
//  1. Snapshot the resolved set in resolution order.
//  2. For each unresolved candidate, in input order, try every snapshot
//     anchor in order and every orientation in set order. Stop at the first
//     alignment that reaches the threshold.
//  3. Commit the pass's resolutions, in candidate order, after every
//     attempt in the pass has finished.
//  4. Stop when nothing is left unresolved. A pass that resolves nothing
//     fails with REGISTRATION_STALLED.
//
// Attempts within a pass only read the snapshot, so they may run on several
// workers (WithWorkers). Commit order does not depend on scheduling, and the
// result is identical for any worker count.
package registration
