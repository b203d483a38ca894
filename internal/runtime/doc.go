// Package runtime runs build containers on containerd.
//
// A [Runtime] connects to a containerd daemon, pulls images for a target
// platform and starts containers backed by snapshots. Each [Container] keeps a
// long-running task alive so commands can be executed in it, files can be
// copied in and out as tar streams, and the resulting filesystem can be
// committed and exported as an OCI archive. Containers should be destroyed
// when no longer needed to release their snapshot and task.
//
// Example usage:
//
//	rt, err := runtime.New(runtime.Config{})
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartContainer(ctx, "gcc:latest", "sqlite-build", "")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "gcc --version", nil, "")
package runtime
