// Package wheel reads distribution metadata out of Python wheel files.
//
// A wheel is a plain zip archive. The two files this package cares about
// live inside the archive's *.dist-info / *.egg-info directories:
//
//   - METADATA: an RFC 822 header block carrying the distribution's name,
//     version, summary, author, and license.
//   - top_level.txt: the top-level import package name(s), which the
//     freezing step needs for hidden imports and hook generation.
//
// The archive is never extracted; files are read in place with archive/zip
// and the header block is parsed with net/textproto.
package wheel
