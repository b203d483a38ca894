package fetch

import "errors"

var (
	ErrDownload = errors.New("download failed")
	ErrChecksum = errors.New("checksum mismatch")
	ErrExtract  = errors.New("extraction failed")
)
