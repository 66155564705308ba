// Package serializer provides encoding and decoding of wsbuild documents
// (build-info descriptors, profiles, build results, history listings).
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, used for descriptors consumed by other tools
//
// YAML:
//   - Human-readable, used for profiles and recipe files
//
// Table:
//   - Flattened FIELD/VALUE listing for terminal viewing
//   - Write-only (no deserialization support)
//
// # Usage - Encoding
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "")
//	defer w.Close()
//	if err := w.Serialize(ctx, result); err != nil {
//	    return err
//	}
//
// # Usage - Decoding
//
//	profile, err := serializer.FromFile[recipe.Profile]("profiles/msvc.yaml")
//
// Format detection for FromFile is based on the file extension.
package serializer
