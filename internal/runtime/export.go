package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/containerd/containerd/v2/core/content"
	"github.com/containerd/containerd/v2/core/images"
	"github.com/containerd/containerd/v2/core/images/archive"
	"github.com/containerd/containerd/v2/pkg/rootfs"
	"github.com/containerd/platforms"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// File name of the OCI archive written by [Container.Export].
const ExportFilename = "image.tar"

// Image configuration applied on export.
type ImageConfig struct {
	Name       string   // Reference recorded in the archive, e.g. "docker.io/library/sqlite_builder:latest".
	Cmd        []string // Default command. Nil keeps the base image's command.
	WorkingDir string   // Default working directory. Empty keeps the base image's.
}

// Commits the container's filesystem changes and writes the result to
// output/image.tar as an OCI archive.
//
// The diff between the container snapshot and its parent becomes a new
// layer on top of the base image. The base image record in containerd is
// never modified: the patched manifest, config and index are written as
// ephemeral blobs, protected by a lease until the export completes. Returns
// the archive path.
func (c *Container) Export(ctx context.Context, output string, cfg ImageConfig) (string, error) {
	loaded, err := c.client.LoadContainer(ctx, c.id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	info, err := loaded.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	layer, err := rootfs.CreateDiff(ctx,
		info.SnapshotKey,
		c.client.SnapshotService(info.Snapshotter),
		c.client.DiffService(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: diff: %w", ErrRuntime, err)
	}

	diffID, err := images.GetDiffID(ctx, c.client.ContentStore(), layer)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	ctx, done, err := c.client.WithLease(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	defer done(context.Background())

	name := cfg.Name
	if name == "" {
		name = info.Image
	}

	target, err := c.patchImage(ctx, info.Image, name, func(m *ocispec.Manifest, img *ocispec.Image) {
		m.Layers = append(m.Layers, layer)
		img.RootFS.DiffIDs = append(img.RootFS.DiffIDs, diffID)
		if cfg.Cmd != nil {
			img.Config.Cmd = cfg.Cmd
			img.Config.Entrypoint = nil
		}
		if cfg.WorkingDir != "" {
			img.Config.WorkingDir = cfg.WorkingDir
		}
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	path := filepath.Join(output, ExportFilename)
	if err := c.writeArchive(ctx, target, name, path); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Info("image exported", "path", path, "name", name)
	return path, nil
}

// Writes the image rooted at target to an OCI tar archive at path, keeping
// only the container's platform.
func (c *Container) writeArchive(ctx context.Context, target ocispec.Descriptor, name, path string) error {
	p, err := platforms.Parse(c.platform)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.client.Export(ctx, f,
		archive.WithManifest(target, name),
		archive.WithPlatform(platforms.Only(p)),
	)
}

// Applies patch to the manifest and config of the base image for the
// container's platform, and returns the descriptor of the patched root.
//
// When the base image is an index, the result is a new single-entry index
// pointing at the patched manifest. Other platforms are dropped because only
// the target platform's layers were pulled.
func (c *Container) patchImage(ctx context.Context, base, name string, patch func(*ocispec.Manifest, *ocispec.Image)) (ocispec.Descriptor, error) {
	img, err := c.client.ImageService().Get(ctx, base)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	cs := c.client.ContentStore()

	root := img.Target
	manifestDesc := root
	var index *ocispec.Index

	if images.IsIndexType(root.MediaType) {
		idx, err := readBlob[ocispec.Index](ctx, cs, root)
		if err != nil {
			return ocispec.Descriptor{}, err
		}
		i, err := c.selectManifest(ctx, cs, idx, base)
		if err != nil {
			return ocispec.Descriptor{}, err
		}
		manifestDesc = idx.Manifests[i]
		index = &idx
	}

	manifest, err := readBlob[ocispec.Manifest](ctx, cs, manifestDesc)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	config, err := readBlob[ocispec.Image](ctx, cs, manifest.Config)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	patch(&manifest, &config)

	manifest.Config, err = writeBlob(ctx, cs, manifest.Config.MediaType, config, name+"-config")
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	patched, err := writeBlob(ctx, cs, manifestDesc.MediaType, manifest, name+"-manifest", content.WithLabels(manifestGCLabels(manifest)))
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	if index == nil {
		return patched, nil
	}

	index.Manifests = []ocispec.Descriptor{patched}
	return writeBlob(ctx, cs, root.MediaType, *index, name+"-index", content.WithLabels(indexGCLabels(*index)))
}

// Returns the position of the manifest for the container's platform.
//
// Descriptors with an explicit platform are checked first. Registries such as
// Docker Hub sometimes omit the platform field, in which case the platform is
// read from each manifest's image config. Falls back to the first manifest.
func (c *Container) selectManifest(ctx context.Context, cs content.Store, idx ocispec.Index, name string) (int, error) {
	if len(idx.Manifests) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyIndex, name)
	}

	p, err := platforms.Parse(c.platform)
	if err != nil {
		return 0, err
	}
	matcher := platforms.OnlyStrict(p)

	for i, m := range idx.Manifests {
		if m.Platform != nil && matcher.Match(*m.Platform) {
			return i, nil
		}
	}

	for i, m := range idx.Manifests {
		if m.Platform != nil || !images.IsManifestType(m.MediaType) {
			continue
		}
		manifest, err := readBlob[ocispec.Manifest](ctx, cs, m)
		if err != nil {
			continue
		}
		config, err := readBlob[ocispec.Image](ctx, cs, manifest.Config)
		if err != nil {
			continue
		}
		if matcher.Match(config.Platform) {
			return i, nil
		}
	}

	return 0, nil
}

// Reads and decodes a JSON blob from the content store.
func readBlob[T any](ctx context.Context, cs content.Provider, desc ocispec.Descriptor) (T, error) {
	var v T
	b, err := content.ReadBlob(ctx, cs, desc)
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(b, &v)
	return v, err
}

// Encodes v as JSON, stores it, and returns its descriptor.
func writeBlob(ctx context.Context, cs content.Ingester, mediaType string, v any, ref string, opts ...content.Opt) (ocispec.Descriptor, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	desc := ocispec.Descriptor{
		MediaType: mediaType,
		Digest:    digest.FromBytes(b),
		Size:      int64(len(b)),
	}
	if err := content.WriteBlob(ctx, cs, ref, bytes.NewReader(b), desc, opts...); err != nil {
		return ocispec.Descriptor{}, err
	}
	return desc, nil
}

// GC reference labels from a manifest to its config and layers, so that
// containerd's garbage collector keeps them reachable.
func manifestGCLabels(m ocispec.Manifest) map[string]string {
	labels := map[string]string{
		"containerd.io/gc.ref.content.config": m.Config.Digest.String(),
	}
	for i, layer := range m.Layers {
		labels[fmt.Sprintf("containerd.io/gc.ref.content.l.%d", i)] = layer.Digest.String()
	}
	return labels
}

// GC reference labels from an index to its manifests.
func indexGCLabels(idx ocispec.Index) map[string]string {
	labels := make(map[string]string, len(idx.Manifests))
	for i, m := range idx.Manifests {
		labels[fmt.Sprintf("containerd.io/gc.ref.content.m.%d", i)] = m.Digest.String()
	}
	return labels
}
