package deps

import "github.com/kballard/go-shellquote"

// Dependencies needed for a native build with the given generator tool.
//
// The tool is "make" for Linux builds and "ninja" for Windows builds.
func Toolchain(tool string) []Dependency {
	return []Dependency{
		{Name: "cmake", Probe: "cmake --version"},
		{Name: tool, Probe: tool + " --version"},
	}
}

// Dependency for the Docker engine.
var Docker = Dependency{Name: "docker", Probe: "docker --version"}

// Dependency for the virtual machine step.
var VirtualBox = Dependency{Name: "vboxmanage", Probe: "vboxmanage --version"}

// Dependency for the containerd engine: a listening socket at address.
func Containerd(address string) Dependency {
	return Dependency{Name: "containerd", Probe: shellquote.Join("test", "-S", address)}
}
