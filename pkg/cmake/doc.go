// Package cmake runs the native configure and build steps.
//
// An Invoker reads the descriptors written by the generate phase, runs
//
//	cmake -G <generator> -DCMAKE_TOOLCHAIN_FILE=<toolchain> -D<var>=<value>... -S <source> -B <build>
//	cmake --build <build> --config <build type> [--parallel N]
//
// through a Runner, and summarizes the result: the exported compile-command
// database and the static or shared libraries found under the build directory.
//
// Native output is streamed unchanged. A failed configure is a configuration
// error; a failed build is a build error carrying the exit status.
package cmake
