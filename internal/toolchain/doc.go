// Package toolchain drives CMake to compile the SQLite shared library.
//
// The [Platform] selects the build directory and generator: Linux builds run
// "cmake .." and "make" in build_linux, Windows builds run "cmake -G Ninja .."
// and "cmake --build . --config Release" in build_windows.
package toolchain
