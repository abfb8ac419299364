package common

import "unsafe"

// CopyAlignment is the byte alignment WebGPU requires for buffer sizes, write offsets and write lengths.
const CopyAlignment = 4

// SliceToBytes reinterprets a slice of fixed-layout values as raw bytes for GPU uploads.
// The returned slice shares memory with the input; it must not outlive or be mutated independently of it.
//
// Parameters:
//   - data: source slice of any plain-old-data type
//
// Returns:
//   - []byte: byte view of the input, or nil if the input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(SizeOf[T]())*len(data))
}

// SizeOf returns the in-memory size in bytes of a single T.
//
// Returns:
//   - uint64: element size in bytes
func SizeOf[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// AlignUp rounds n up to the next multiple of CopyAlignment.
//
// Parameters:
//   - n: the byte count to align
//
// Returns:
//   - uint64: n rounded up to a multiple of CopyAlignment
func AlignUp(n uint64) uint64 {
	return (n + CopyAlignment - 1) &^ (CopyAlignment - 1)
}

// PadBytes returns data extended with zero bytes to a multiple of CopyAlignment.
// The input is returned unchanged when it is already aligned.
//
// Parameters:
//   - data: the bytes to pad
//
// Returns:
//   - []byte: aligned bytes (a fresh copy only if padding was required)
func PadBytes(data []byte) []byte {
	n := AlignUp(uint64(len(data)))
	if n == uint64(len(data)) {
		return data
	}
	padded := make([]byte, n)
	copy(padded, data)
	return padded
}
