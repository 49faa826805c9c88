package utils

import (
	"golang.org/x/exp/constraints"
	"os"
)

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Sum[T constraints.Integer | constraints.Float](values []T) T {
	var s T
	for _, v := range values {
		s += v
	}
	return s
}

// EnsureDir creates dir (and parents) if it does not exist yet
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
