package vm

import "errors"

var ErrProvision = errors.New("virtual machine provisioning failed")
