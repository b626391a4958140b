package domain

import "errors"

var (
	// ErrAssetNotFound is returned when no asset matches an identifier
	ErrAssetNotFound = errors.New("image not found")

	// ErrNoSelection is returned by operations that need a selected image
	ErrNoSelection = errors.New("no image selected")

	// ErrUnknownField is returned for filter names outside the five sliders
	ErrUnknownField = errors.New("unknown filter field")

	// ErrURLNotFound is returned when a URL was revoked or never issued
	ErrURLNotFound = errors.New("url not found")

	// ErrExportSuperseded is returned when the selection changed while an
	// export was loading pixels
	ErrExportSuperseded = errors.New("export superseded by a newer selection")
)
