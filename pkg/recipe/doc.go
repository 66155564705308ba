// Package recipe defines what wsbuild builds and for which platform.
//
// A Recipe carries the project identity (name, version), the settings axes it
// depends on, its options with their legal values, and the already-built
// packages it requires. The built-in WinSockHTTP recipe describes the
// winsock-http project; Load reads other recipes from YAML.
//
// # Settings
//
// Settings (os, arch, compiler, build_type) come from a Profile plus
// command-line overrides and are checked against a fixed settings model:
//
//	os:         Windows, Linux, Macos, FreeBSD
//	arch:       x86, x86_64, armv7, armv8
//	compiler:   msvc 190-194 (runtime static|dynamic, Windows only)
//	            gcc 5-14, clang 6-19, apple-clang 10-16 (Macos only)
//	build_type: Debug, Release, RelWithDebInfo, MinSizeRel
//
// Values match case-insensitively and are returned in their declared
// spelling. A missing axis, an unknown value, or a contradictory pair such as
// msvc on Linux is reported as a CONFIGURATION error.
//
// # Options
//
// ResolveOptions fills unset options from their defaults and rejects unknown
// names and illegal values:
//
//	opts, err := r.ResolveOptions(map[string]string{"shared": "true"})
//	opts.Get("shared") // "True"
//
// # Profiles
//
//	p, err := recipe.LoadProfile("profiles/linux-gcc.yaml")
//	err = p.ApplyOverrides([]string{"build_type=Debug"}, nil, nil)
//	s, err := r.ResolveSettings(p.ToSettings())
//
// DetectHost derives a profile from the running platform and the compilers
// found on PATH.
package recipe
