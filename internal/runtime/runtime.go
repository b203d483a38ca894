package runtime

import (
	"context"
	"fmt"
	"log/slog"
	goruntime "runtime"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/distribution/reference"
)

const (

	// Default containerd socket address.
	DefaultAddress = "/run/containerd/containerd.sock"

	// Default namespace for images and containers.
	DefaultNamespace = "sqlite-builder"

	// Default snapshotter for container filesystems.
	DefaultSnapshotter = "overlayfs"

	// OCI runtime shim for running containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Containerd connection settings. Empty fields use the package defaults.
type Config struct {
	Address     string // Containerd socket address.
	Namespace   string // Namespace scoping all images and containers.
	Snapshotter string // Snapshotter for unpacked layers and container filesystems.
}

// Manages the containerd client and provides image and container operations.
type Runtime struct {
	client      *containerd.Client
	snapshotter string
}

// Connects to containerd.
//
// The runtime must be closed when no longer needed.
func New(cfg Config) (*Runtime, error) {
	address := orDefault(cfg.Address, DefaultAddress)
	namespace := orDefault(cfg.Namespace, DefaultNamespace)

	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("connected to containerd", "address", address, "namespace", namespace)

	return &Runtime{
		client:      client,
		snapshotter: orDefault(cfg.Snapshotter, DefaultSnapshotter),
	}, nil
}

// Closes the containerd client connection.
func (rt *Runtime) Close() error {
	return rt.client.Close()
}

// Pulls an image for the target platform and starts a container from it.
//
// Short references are normalized the way docker does ("gcc:latest" becomes
// "docker.io/library/gcc:latest"). The layers are unpacked into the
// snapshotter, any stale container with the same ID is removed, and a
// long-running task (sleep infinity) is started so that subsequent Exec calls
// have a running process to attach to.
func (rt *Runtime) StartContainer(ctx context.Context, ref, id, platform string) (*Container, error) {
	if platform == "" {
		platform = DefaultPlatform()
	}

	name, err := NormalizeRef(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Info("pulling image", "ref", name, "platform", platform)

	image, err := rt.client.Pull(ctx, name,
		containerd.WithPullUnpack,
		containerd.WithPlatform(platform),
		containerd.WithPullSnapshotter(rt.snapshotter),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: pull %s: %w", ErrRuntime, name, err)
	}

	c := &Container{
		client:      rt.client,
		id:          id,
		platform:    platform,
		snapshotter: rt.snapshotter,
	}

	c.remove(ctx)

	ctr, err := c.create(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("container started", "id", id, "image", name)
	return c, nil
}

// Normalizes an image reference to its fully qualified, tagged form.
func NormalizeRef(ref string) (string, error) {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return "", err
	}
	return reference.TagNameOnly(named).String(), nil
}

// Returns the OCI platform for the host architecture.
func DefaultPlatform() string {
	return "linux/" + goruntime.GOARCH
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
