package freeze

import (
	"fmt"
	"strings"
	"text/template"
)

// DataFile maps a source file into a directory of the frozen bundle.
type DataFile struct {
	// Source is the absolute path of the file to bundle. Always written
	// with forward slashes so the generated spec parses on Windows.
	Source string

	// Dest is the directory inside the bundle the file is placed in.
	Dest string
}

// SpecData carries every value substituted into the PyInstaller spec
// template. Paths must be absolute; the spec file is executed by
// PyInstaller from its own working directory.
type SpecData struct {
	// BootstrapScript is the entry-point script the frozen app runs.
	BootstrapScript string

	// AppExecutableName is the name of the produced executable.
	AppExecutableName string

	// CollectionName is the directory PyInstaller collects the frozen
	// tree into.
	CollectionName string

	// BundleName is the macOS .app bundle name. Ignored by PyInstaller on
	// other platforms but always emitted.
	BundleName string

	// AppIcon is the icon embedded into the executable.
	AppIcon string

	// InstallerIcon is the icon recorded on the macOS bundle.
	InstallerIcon string

	// DistributionName is the installed distribution whose version is
	// stamped into the bundle (read back via importlib.metadata at spec
	// evaluation time).
	DistributionName string

	// HiddenImport is the top-level import package of the wheel, which
	// static analysis alone would miss.
	HiddenImport string

	// SearchPaths extends PyInstaller's module search path; contains the
	// package environment.
	SearchPaths []string

	// HooksPath lists extra directories searched for hook files.
	HooksPath []string

	// DataFiles are extra files bundled next to the application code.
	DataFiles []DataFile
}

// specTemplate renders the PyInstaller spec file. The output is Python
// source evaluated by PyInstaller, so every string goes through pystr and
// every list through pylist/pydatas to produce valid Python literals.
var specTemplate = template.Must(template.New("spec").Funcs(template.FuncMap{
	"pystr":   pyString,
	"pylist":  pyStringList,
	"pydatas": pyDataFiles,
}).Parse(`# -*- mode: python ; coding: utf-8 -*-
import os
import sys
try:
    from importlib import metadata
except ImportError:
    import importlib_metadata as metadata  # type: ignore

block_cipher = None
a = Analysis([{{pystr .BootstrapScript}}],
             pathex={{pylist .SearchPaths}},
             binaries=[],
             datas={{pydatas .DataFiles}},
             hiddenimports=[{{pystr .HiddenImport}}],
             hookspath=[os.path.join(workpath, ".."), SPECPATH] + {{pylist .HooksPath}},
             hooksconfig={},
             runtime_hooks=[],
             excludes=[],
             win_no_prefer_redirects=False,
             win_private_assemblies=False,
             cipher=block_cipher,
             noarchive=True)
pyz = PYZ(a.pure, a.zipped_data,
             cipher=block_cipher)

exe = EXE(pyz,
          a.scripts,
          [],
          exclude_binaries=True,
          name={{pystr .AppExecutableName}},
          debug=True,
          bootloader_ignore_signals=False,
          strip=False,
          upx=True,
          console=False,
          disable_windowed_traceback=False,
          target_arch=None,
          codesign_identity=None,
          entitlements_file=None,
          icon={{pystr .AppIcon}})
coll = COLLECT(exe,
               a.binaries,
               a.zipfiles,
               a.datas,
               strip=False,
               upx=True,
               upx_exclude=[],
               name={{pystr .CollectionName}})
pkg_metadata = metadata.metadata({{pystr .DistributionName}})

app = BUNDLE(coll,
             name={{pystr .BundleName}},
             version=pkg_metadata['Version'],
             icon={{pystr .InstallerIcon}},
             bundle_identifier=None)
`))

// GenerateSpec renders the PyInstaller spec file contents for the given
// inputs.
func GenerateSpec(data SpecData) (string, error) {
	var sb strings.Builder
	if err := specTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render spec file: %w", err)
	}
	return sb.String(), nil
}

// pyString renders s as a single-quoted Python string literal. Backslashes
// are escaped so Windows paths survive evaluation.
func pyString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

// pyStringList renders a slice as a Python list of string literals.
func pyStringList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, pyString(item))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// pyDataFiles renders data files as a Python list of (source, dest) tuples.
// Source paths use forward slashes on every platform; PyInstaller accepts
// them and the spec avoids backslash-escape churn.
func pyDataFiles(files []DataFile) string {
	tuples := make([]string, 0, len(files))
	for _, f := range files {
		src := strings.ReplaceAll(f.Source, `\`, `/`)
		tuples = append(tuples, fmt.Sprintf("(%s, %s)", pyString(src), pyString(f.Dest)))
	}
	return "[" + strings.Join(tuples, ", ") + "]"
}
