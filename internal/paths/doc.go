// Provides platform-appropriate paths for sqlite-builder.
//
// Downloads are cached under the XDG cache directory and configuration is
// read from the XDG config directory. The name "sqlite-builder" is used as the
// subdirectory under each base path.
package paths
