package videojobs

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidIdentity     = errors.New("invalid job identity")
	ErrTranscodeTimeout    = errors.New("transcode timed out")
	ErrInvalidArtifactPath = errors.New("invalid artifact path")
)
