// Package scaffold generates the project files placed next to the SQLite
// sources: a CMakeLists.txt that builds sqlite3.c as a shared library, and a
// Dockerfile that repeats the Linux build inside a gcc image.
package scaffold
