package job

import "errors"

var (
	ErrJob     = errors.New("job failed")
	ErrOptions = errors.New("invalid job options")
)
