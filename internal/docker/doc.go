// Package docker builds and runs the SQLite image with the docker CLI.
//
// The image is built from the generated Dockerfile with the source directory
// as context ("docker build -t sqlite_builder .") and started as
// "sqlite_container" with the user's terminal attached.
package docker
