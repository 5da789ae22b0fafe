package interpreter

import (
	"math"

	"github.com/h41-dev/hal/internal/wasmruntime"
)

// Checked division and remainder. Wasm semantics: division and remainder by
// zero trap; signed division of the minimum value by -1 traps with integer
// overflow; the matching remainder is defined as 0 and does not trap.

func divS32(l, r int32) (int32, error) {
	if r == 0 {
		return 0, wasmruntime.ErrDivisionByZero
	}
	if l == math.MinInt32 && r == -1 {
		return 0, wasmruntime.ErrIntegerOverflow
	}
	return l / r, nil
}

func divU32(l, r int32) (int32, error) {
	if r == 0 {
		return 0, wasmruntime.ErrDivisionByZero
	}
	return int32(uint32(l) / uint32(r)), nil
}

func remS32(l, r int32) (int32, error) {
	if r == 0 {
		return 0, wasmruntime.ErrDivisionByZero
	}
	if r == -1 {
		return 0, nil
	}
	return l % r, nil
}

func remU32(l, r int32) (int32, error) {
	if r == 0 {
		return 0, wasmruntime.ErrDivisionByZero
	}
	return int32(uint32(l) % uint32(r)), nil
}

func divS64(l, r int64) (int64, error) {
	if r == 0 {
		return 0, wasmruntime.ErrDivisionByZero
	}
	if l == math.MinInt64 && r == -1 {
		return 0, wasmruntime.ErrIntegerOverflow
	}
	return l / r, nil
}

func divU64(l, r int64) (int64, error) {
	if r == 0 {
		return 0, wasmruntime.ErrDivisionByZero
	}
	return int64(uint64(l) / uint64(r)), nil
}

func remS64(l, r int64) (int64, error) {
	if r == 0 {
		return 0, wasmruntime.ErrDivisionByZero
	}
	if r == -1 {
		return 0, nil
	}
	return l % r, nil
}

func remU64(l, r int64) (int64, error) {
	if r == 0 {
		return 0, wasmruntime.ErrDivisionByZero
	}
	return int64(uint64(l) % uint64(r)), nil
}
