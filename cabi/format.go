//go:build cgo

package main

import "github.com/e-illusion/ICPT-S/imageproc"

// formatField lays out a format name as the NUL-terminated char[16] of
// the C ImageInfo struct.
func formatField(f imageproc.FormatName) [imageproc.MaxFormatLen + 1]byte {
	var field [imageproc.MaxFormatLen + 1]byte
	copy(field[:imageproc.MaxFormatLen], f.String())
	return field
}
