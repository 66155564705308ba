// Package generator writes the descriptors a native build consumes: where
// the required packages live and which toolchain and generator to target.
//
// Generate is the first phase of the two-phase protocol. It resolves the
// invocation's settings and options against the recipe, then writes into the
// generators directory (build/generators by default):
//
//	build-info.json                        recipe identity, settings, options, dependencies
//	<dep>-config.cmake                     imported <dep>::<dep> target
//	<dep>-config-version.cmake             find_package version check
//	<dep>-<build_type>-<arch>-data.cmake   per-configuration locations
//	wsbuild_toolchain.cmake                CMake toolchain file
//	CMakePresets.json                      configure and build presets
//	checksums.txt                          sha256sum of everything above
//
// The returned result.Output is informational; the build phase reads the
// descriptors back from disk.
//
//	g := generator.New(config.NewConfig(config.WithVersion(version)))
//	out, err := g.Generate(ctx, &generator.Input{
//	    Recipe:   recipe.WinSockHTTP(),
//	    Settings: settings,
//	}, "build/generators")
package generator
