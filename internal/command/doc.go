// Package command runs external programs.
//
// Every tool sqlite-builder drives (cmake, make, ninja, docker, vboxmanage,
// apt) is invoked through a [Runner]. The production [Exec] runner starts a
// child process with the user's terminal attached; tests substitute the
// recording runner from the commandtest package.
//
// Example usage:
//
//	r := &command.Exec{}
//	if err := r.Run(ctx, command.New("cmake", "..").In("build_linux")); err != nil {
//	    return err
//	}
package command
