package docker

import "errors"

var ErrDocker = errors.New("docker failed")
