//go:build cgo

// Command cabi builds the image processor as a C shared library:
//
//	go build -buildmode=c-shared -o libimgproc.so ./cabi
//
// The exported functions keep the historical image_processor.h contract:
// int status codes (0 or a negative ErrorCode), malloc'ed output buffers
// released with free_image_data, and static version strings.
package main

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdlib.h>

typedef struct {
    int width;
    int height;
    int channels;
    size_t data_size;
    char format[16];
} ImageInfo;

typedef struct {
    int quality;
    int max_width;
    int max_height;
    bool enable_resize;
} CompressConfig;
*/
import "C"

import (
	"unsafe"

	"github.com/e-illusion/ICPT-S/imageproc"
)

// Static for the life of the library; callers must not free them.
var (
	versionString = C.CString(imageproc.Version())
	codecString   = C.CString(imageproc.CodecVersion())
)

func main() {}

//export compress_image
func compress_image(inputPath, outputPath *C.char, config *C.CompressConfig) C.int {
	if inputPath == nil || outputPath == nil || config == nil {
		return status(imageproc.InvalidParams)
	}
	cfg := goConfig(config)
	return statusOf(imageproc.Compress(C.GoString(inputPath), C.GoString(outputPath), &cfg))
}

//export generate_thumbnail
func generate_thumbnail(inputPath, outputPath *C.char, thumbWidth C.int) C.int {
	if inputPath == nil || outputPath == nil {
		return status(imageproc.InvalidParams)
	}
	return statusOf(imageproc.Thumbnail(C.GoString(inputPath), C.GoString(outputPath), int(thumbWidth)))
}

//export get_image_info
func get_image_info(inputPath *C.char, info *C.ImageInfo) C.int {
	if inputPath == nil || info == nil {
		return status(imageproc.InvalidParams)
	}
	ii, err := imageproc.Info(C.GoString(inputPath))
	if err != nil {
		return statusOf(err)
	}

	info.width = C.int(ii.Width)
	info.height = C.int(ii.Height)
	info.channels = C.int(ii.Channels)
	info.data_size = C.size_t(ii.DataSize)
	format := formatField(ii.Format)
	for i, b := range format {
		info.format[i] = C.char(b)
	}
	return status(imageproc.Success)
}

// batch_process_images returns the number of items that succeeded, or
// InvalidParams when the arrays or config are NULL or count <= 0.
//
//export batch_process_images
func batch_process_images(inputPaths, outputPaths **C.char, count C.int, config *C.CompressConfig) C.int {
	if inputPaths == nil || outputPaths == nil || config == nil || count <= 0 {
		return status(imageproc.InvalidParams)
	}
	n := int(count)
	ins := goStrings(unsafe.Slice(inputPaths, n))
	outs := goStrings(unsafe.Slice(outputPaths, n))

	cfg := goConfig(config)
	return C.int(imageproc.BatchCompressCount(ins, outs, n, &cfg))
}

// process_image_memory hands *outputData to the caller, who must release it
// with free_image_data. On failure *outputData is NULL and *outputSize 0.
//
//export process_image_memory
func process_image_memory(inputData *C.uchar, inputSize C.size_t, outputData **C.uchar, outputSize *C.size_t, config *C.CompressConfig) C.int {
	if inputData == nil || inputSize == 0 || outputData == nil || outputSize == nil || config == nil {
		return status(imageproc.InvalidParams)
	}
	*outputData, *outputSize = nil, 0

	// Only read for the duration of the call.
	input := unsafe.Slice((*byte)(unsafe.Pointer(inputData)), int(inputSize))
	cfg := goConfig(config)

	buf, err := imageproc.CompressFromMemory(input, &cfg)
	if err != nil {
		return statusOf(err)
	}
	defer buf.Release()

	data, err := buf.Bytes()
	if err != nil {
		return status(imageproc.MemoryAllocation)
	}
	out := C.malloc(C.size_t(len(data)))
	if out == nil {
		return status(imageproc.MemoryAllocation)
	}
	copy(unsafe.Slice((*byte)(out), len(data)), data)

	*outputData = (*C.uchar)(out)
	*outputSize = C.size_t(len(data))
	return status(imageproc.Success)
}

// free_image_data releases a buffer from process_image_memory. NULL is a no-op.
//
//export free_image_data
func free_image_data(data *C.uchar) {
	if data != nil {
		C.free(unsafe.Pointer(data))
	}
}

//export get_version
func get_version() *C.char { return versionString }

//export get_codec_version
func get_codec_version() *C.char { return codecString }

// get_opencv_version is kept for binaries linked against the old symbol.
//
//export get_opencv_version
func get_opencv_version() *C.char { return codecString }

func goConfig(c *C.CompressConfig) imageproc.CompressConfig {
	return imageproc.CompressConfig{
		Quality:      int32(c.quality),
		MaxWidth:     int32(c.max_width),
		MaxHeight:    int32(c.max_height),
		EnableResize: bool(c.enable_resize),
	}
}

// goStrings converts a C string array; NULL entries become "" and fail
// their batch item with InvalidParams.
func goStrings(ptrs []*C.char) []string {
	out := make([]string, len(ptrs))
	for i, p := range ptrs {
		if p != nil {
			out[i] = C.GoString(p)
		}
	}
	return out
}

func status(code imageproc.ErrorCode) C.int { return C.int(code) }

func statusOf(err error) C.int { return status(imageproc.CodeOf(err)) }
