package asset

import "errors"

var (
	ErrBadMagic           = errors.New("not a binary glTF file")
	ErrUnsupportedVersion = errors.New("unsupported glTF container version")
	ErrTruncated          = errors.New("glTF container is truncated")
	ErrMissingJSONChunk   = errors.New("glTF container has no JSON chunk")
	ErrEmptyID            = errors.New("model id is empty")
)
