package main

// A FormatError reports that the input is not a valid PNG container.
type FormatError string

func (e FormatError) Error() string { return "sixview: invalid format: " + string(e) }

// A StructureError reports a required chunk that is missing or out of order.
type StructureError string

func (e StructureError) Error() string { return "sixview: bad chunk structure: " + string(e) }

// A TruncatedError reports that the input ended in the middle of a chunk.
type TruncatedError string

func (e TruncatedError) Error() string { return "sixview: truncated input: " + string(e) }

// A CorruptDataError reports image data that cannot be decoded: an unknown
// scanline filter, a broken zlib stream or a scanline size mismatch.
type CorruptDataError string

func (e CorruptDataError) Error() string { return "sixview: corrupt data: " + string(e) }

// An UnsupportedError reports a valid but unimplemented PNG variant.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "sixview: unsupported feature: " + string(e) }
