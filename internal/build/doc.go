// Package build replays the SQLite Dockerfile on containerd.
//
// A [Recipe] is derived from the same [scaffold.Image] that renders the
// Dockerfile: start from the gcc image, set the working directory, copy the
// source tree in and run the CMake build. Steps accumulate shell, working
// directory and environment modifiers the way Dockerfile instructions do.
// After a successful build the compiled build directory is copied back to
// the host and the container filesystem is exported as an OCI archive.
//
// Example usage:
//
//	e := &build.Engine{Output: "dist"}
//	if err := e.Build(ctx, "sqlite_build", scaffold.DefaultImage()); err != nil {
//	    return err
//	}
package build
