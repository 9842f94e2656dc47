// Package cpack generates CPack configuration and runs the cpack command
// to wrap a frozen application tree into a platform installer artifact.
//
// Two generators exist, mirroring the supported installer toolchains:
//
//   - WIX on Windows, producing an .msi
//   - DragNDrop on macOS, producing a .dmg
//
// The package writes a CPackConfig.cmake into the dist directory (together
// with the license and description files it references), locates a cpack
// binary (PATH first, then the tooling venv where the cmake pip package
// installs one), and invokes it. cpack itself is a black box; failures
// propagate its exit code unchanged.
package cpack
