// Package pngchunk reads and writes PNG chunks over in-memory byte buffers.
//
// A PNG datastream is an 8-byte signature followed by chunks:
//
//	length (4, big endian) | type (4, ASCII) | data (length) | crc (4, big endian)
//
// The CRC covers type ++ data, never the length field.
//
// The write side is position-aware: InsertChunk always splices the new chunk
// directly after IHDR. The read side is position-independent: FindChunk and
// FindAll walk every chunk by length, because other producers may place
// ancillary chunks (iCCP, eXIf, ...) ahead of ours.
//
// Nothing in this package mutates its input. Every function that returns a
// modified stream allocates a new buffer.
package pngchunk
