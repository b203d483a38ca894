package scaffold

import "errors"

var (
	ErrWrite    = errors.New("failed to write project file")
	ErrTemplate = errors.New("failed to render template")
)
