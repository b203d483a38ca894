package command

import (
	"errors"
	"fmt"
)

var (
	ErrFailed = errors.New("command failed")
	ErrParse  = errors.New("invalid command line")
)

// Reports a process that ran but exited with a non-zero status.
type ExitError struct {
	Command string // Quoted command line.
	Code    int    // Exit status.
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}
