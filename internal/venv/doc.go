// Package venv provisions and uses Python virtual environments.
//
// This package wraps the python and pip CLIs (via os/exec) and serves two
// roles in the pipeline:
//
//   - Environment Provisioner: create (or reuse) the tooling virtual
//     environment that carries pip, the pinned freezing tool, and the cmake
//     package that ships cpack.
//   - Dependency Installer: install the target wheel plus any extra
//     requirement files into the package environment with pip --target.
//
// Design decisions:
//   - A reused venv is validated before use (pyvenv.cfg plus an interpreter
//     binary must be present) and rejected with ExitVenvInvalid otherwise,
//     rather than handing a corrupted environment to pip.
//   - Partially created environments are removed on failure so a rerun
//     starts clean.
//   - pip and python failures carry the child's exit code through
//     model.WrapToolError so the process exits with the tool's own code.
package venv
