package toolchain

import "errors"

var (
	ErrPlatform = errors.New("unsupported platform")
	ErrCompile  = errors.New("compilation failed")
)
