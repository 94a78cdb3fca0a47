// Package backend hands preprocessed shader text to a real shader compiler.
// rgsl does no semantic checking itself; a Backend reports success, the
// SPIR-V words it produced and its diagnostic log.
package backend

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rubiojr/rgsl/shader"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic uint32 = 0x07230203

var ErrNotSPIRV = errors.New("not a SPIR-V module")

// Result is the outcome of one backend invocation. A shader the backend
// rejects is Success == false with the reason in Log; it is not an error.
type Result struct {
	Success bool
	Words   []uint32
	Log     string
}

// Backend validates and compiles preprocessed shader source for a stage.
// The returned error is reserved for failures to run the backend at all.
type Backend interface {
	// Name identifies the backend and its target; it is part of cache keys.
	Name() string
	Validate(ctx context.Context, source string, stage shader.Stage) (Result, error)
	Compile(ctx context.Context, source string, stage shader.Stage) (Result, error)
}

// DecodeWords converts a little-endian SPIR-V binary to words.
func DecodeWords(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: size %d is not a multiple of 4", ErrNotSPIRV, len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	if len(words) == 0 || words[0] != SPIRVMagic {
		return nil, fmt.Errorf("%w: bad magic number", ErrNotSPIRV)
	}
	return words, nil
}

// EncodeWords is the inverse of DecodeWords.
func EncodeWords(words []uint32) []byte {
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return data
}
