package gnidx

var (
	// Version of GNidx.
	Version = "v0.1.0"

	// Build timestamp, set by the linker during release builds.
	Build = "n/a"
)
