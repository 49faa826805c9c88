package utils

import (
	"cmp"
	"github.com/jfcg/sorty/v2"
)

func Map[T any, O any](items []T, f func(T) O) []O {
	result := make([]O, len(items))
	for i, item := range items {
		result[i] = f(item)
	}
	return result
}

func Filter[V any](values []V, condition func(V) bool) []V {
	result := make([]V, 0, len(values))
	for _, v := range values {
		if condition(v) {
			result = append(result, v)
		}
	}
	return result
}

// Flatten concatenates the slices in order
func Flatten[T any](items [][]T) []T {
	size := 0
	for _, item := range items {
		size += len(item)
	}
	result := make([]T, 0, size)
	for _, item := range items {
		result = append(result, item...)
	}
	return result
}

func Copy[T any](items []T) []T {
	result := make([]T, len(items))
	copy(result, items)
	return result
}

func MaxOver[T cmp.Ordered](items []T) T {
	var m T
	for i, item := range items {
		if i == 0 || item > m {
			m = item
		}
	}
	return m
}

func MinOver[T cmp.Ordered](items []T) T {
	var m T
	for i, item := range items {
		if i == 0 || item < m {
			m = item
		}
	}
	return m
}

func Sort[T any](items []T, less func(T, T) bool) {
	// Define the Lesswap function required by sorty
	lesswap := func(i, k, r, s int) bool {
		if less(items[i], items[k]) {
			if r != s {
				items[r], items[s] = items[s], items[r]
			}
			return true
		}
		return false
	}

	sorty.Sort(len(items), lesswap)
}

func SortOrdered[T cmp.Ordered](items []T) {
	Sort(items, func(a, b T) bool {
		return a < b
	})
}

// Chunks splits total into consecutive chunk sizes of at most size; the last chunk holds the remainder.
func Chunks(total, size int) []int {
	if total <= 0 || size <= 0 {
		return []int{}
	}
	chunks := make([]int, 0, (total+size-1)/size)
	for total > 0 {
		n := Min(size, total)
		chunks = append(chunks, n)
		total -= n
	}
	return chunks
}
