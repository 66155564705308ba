// Package oci packages build output as OCI artifacts.
//
// The libraries, compile-command database, and generated descriptors of a
// build directory are written as one gzip tar layer into a local OCI image
// layout (Package). With an oci:// target the layout is then copied to a
// registry (PushFromStore), authenticating with Docker credentials.
//
// Targets are either a local directory or a URI such as
//
//	oci://ghcr.io/org/winsock-http:0.0.0
//
// and are parsed with ParseOutputTarget.
package oci
