//go:build !libjpeg

package encoder

// libJPEG is nil when the binary is built without the libjpeg tag.
func libJPEG() Encoder { return nil }
