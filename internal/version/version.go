// ABOUTME: Build identity constants
// ABOUTME: Shown by the CLI --version flag and the TUI header
package version

const (
	// Version is the release of this build
	Version = "0.3.0"

	// Product is the application name
	Product = "dualdeck"

	// Manufacturer is the publisher of the application
	Manufacturer = "harperreed"
)
