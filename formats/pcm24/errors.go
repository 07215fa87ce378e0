package pcm24

import "errors"

var (
	ErrTruncated           = errors.New("pcm24 data is not a multiple of 3 bytes")
	ErrUnsupportedBitDepth = errors.New("only 24-bit samples supported")
	ErrSampleOutOfRange    = errors.New("sample outside unsigned 24-bit range")
)
