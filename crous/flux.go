package crous

// FLUX is the binary serialization of CROUS trees. A document is a 4-byte
// magic, a version byte, then one value. Values are a marker byte followed
// by a payload: zigzag varints for ints, big-endian IEEE 754 bits for
// floats, uvarint length prefixes for strings and bytes, uvarint counts for
// containers. Dict entries are a length-prefixed key followed by a value.
const (
	fluxMagic   = "FLUX"
	fluxVersion = 0x01

	fluxHeaderSize = 5
)

// Value markers on the wire.
const (
	wireNull   byte = 0x00
	wireFalse  byte = 0x01
	wireTrue   byte = 0x02
	wireInt    byte = 0x03
	wireFloat  byte = 0x04
	wireString byte = 0x05
	wireBytes  byte = 0x06
	wireList   byte = 0x07
	wireTuple  byte = 0x08
	wireDict   byte = 0x09
	wireTagged byte = 0x0A
)
