// Package canonical produces RFC 8785 canonical JSON and content digests.
//
// A registration run is identified by a digest of its input, so repeated
// runs over the same scanners can be recognised in the store regardless of
// file layout or whitespace. The digest is SHA-256 over a domain prefix, a
// 0x00 separator and the canonical JSON of the scanners.
package canonical
