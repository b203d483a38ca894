// Package job runs the SQLite build from download to packaging.
//
// A job performs, in order: the dependency check, download and extraction
// of the amalgamation, generation of CMakeLists.txt, the native compile,
// generation of the Dockerfile, and then the optional virtual machine and
// container steps. Each step logs when it starts; the first failure stops
// the job and is reported with the step's name.
//
// External tools run through a [command.Runner] and the container backend is
// an [Engine], so the whole sequence can be exercised without cmake, docker
// or VirtualBox installed.
package job
