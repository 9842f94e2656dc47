// Package freeze drives the PyInstaller freezing step.
//
// Responsibilities:
//   - Generate the PyInstaller spec file from a SpecData value. The spec is
//     Python source, so string values are emitted as Python literals.
//   - Generate the wheel hook file (collect_all + copy_metadata) that makes
//     PyInstaller pick up the installed application package and its
//     metadata.
//   - Invoke PyInstaller from the tooling venv and propagate its exit code.
//   - Locate the frozen application tree after a successful run, using a
//     platform-keyed search strategy (injectable for tests).
//
// PyInstaller itself is a black box: this package only assembles its inputs
// and runs it.
package freeze
