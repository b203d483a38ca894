package vm

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cruciblehq/sqlite-builder/internal/command"
)

// Program used to drive VirtualBox.
const vboxmanage = "vboxmanage"

// Describes the virtual machine to create.
type Options struct {
	Name   string // VM name, also used for the disk image file name.
	OSType string // VirtualBox OS type identifier.
	Memory int    // Memory in MB.
	VRAM   int    // Video memory in MB.
	Disk   int    // Disk size in MB.
	ISO    string // Path of the installer ISO attached as a DVD.
}

// Returns the CentOS VM configuration: 1 GB of memory, 16 MB of video memory
// and a 20 GB disk.
func DefaultOptions(iso string) Options {
	return Options{
		Name:   "CentOS-VM",
		OSType: "RedHat_64",
		Memory: 1024,
		VRAM:   16,
		Disk:   20480,
		ISO:    iso,
	}
}

// Name of the virtual disk image created for the VM.
func (o Options) DiskFile() string {
	return o.Name + ".vdi"
}

// Returns the vboxmanage invocations that create, configure and start the VM.
//
// The VM gets a SATA disk on port 0, the installer ISO on IDE port 1, boots
// from DVD before disk, uses NAT networking and has audio disabled.
func (o Options) Commands() []command.Command {
	vbox := func(args ...string) command.Command {
		return command.New(vboxmanage, args...)
	}
	return []command.Command{
		vbox("createvm", "--name", o.Name, "--ostype", o.OSType, "--register"),
		vbox("modifyvm", o.Name, "--memory", strconv.Itoa(o.Memory), "--vram", strconv.Itoa(o.VRAM)),
		vbox("createhd", "--filename", o.DiskFile(), "--size", strconv.Itoa(o.Disk)),
		vbox("storagectl", o.Name, "--name", "SATA", "--add", "sata", "--controller", "IntelAHCI"),
		vbox("storageattach", o.Name, "--storagectl", "SATA", "--port", "0", "--device", "0", "--type", "hdd", "--medium", o.DiskFile()),
		vbox("storagectl", o.Name, "--name", "IDE", "--add", "ide", "--controller", "PIIX4"),
		vbox("storageattach", o.Name, "--storagectl", "IDE", "--port", "1", "--device", "0", "--type", "dvddrive", "--medium", o.ISO),
		vbox("modifyvm", o.Name, "--boot1", "dvd", "--boot2", "disk", "--boot3", "none", "--boot4", "none"),
		vbox("modifyvm", o.Name, "--nic1", "nat"),
		vbox("modifyvm", o.Name, "--audio", "none"),
		vbox("startvm", o.Name),
	}
}

// Creates and starts the VM, running each vboxmanage command in dir.
//
// Stops at the first failing command. A VM that was partially created is
// left registered so it can be inspected.
func Provision(ctx context.Context, r command.Runner, dir string, o Options) error {
	if o.ISO == "" {
		return fmt.Errorf("%w: no installer ISO", ErrProvision)
	}

	slog.Info("provisioning virtual machine", "name", o.Name, "iso", o.ISO)

	for _, c := range o.Commands() {
		if err := r.Run(ctx, c.In(dir)); err != nil {
			return fmt.Errorf("%w: %w", ErrProvision, err)
		}
	}

	slog.Info("virtual machine started", "name", o.Name)
	return nil
}
