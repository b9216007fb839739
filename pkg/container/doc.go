// Package container reads and writes the block-oriented "skyb" binary
// container that carries drone-show data.
//
// # File Format
//
// A container starts with a header:
//
//	[Magic "skyb"(4)][Version(1)][Features(1), version 2 only][Checksum(4), optional]
//
// Version 1 files have no feature mask and behave as if it were zero.
// In version 2 files, bit 0 of the feature mask signals that a 4-byte
// little-endian CRC32 (IEEE) follows. The checksum covers the entire file,
// header included, with the checksum field itself zeroed during the
// computation.
//
// After the header, blocks repeat until the end of the stream:
//
//	[Type(1)][Length(2, little-endian)][Body(Length)]
//
// Known block types are trajectory (1), light program (2), comment (3) and
// yaw control (4); unknown types are preserved and skipped over.
//
// # Error Handling
//
// Header validation is eager: NewReader fails with a parse error on a bad
// magic or version and with a corruption error on a checksum mismatch,
// before any block is exposed. Traversal reads one block header at a time
// and never materializes block bodies it was not asked for.
package container
