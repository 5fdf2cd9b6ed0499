package crossbar

import (
	apperr "github.com/matzehuels/xbar/pkg/errors"
)

// Rows returns how many rows a crossbar with n terminals has: one per
// terminal per stage, n*(n-1) in total. Fewer than two terminals need no
// wiring and have zero rows.
func Rows(n int) (int, error) {
	if err := apperr.ValidateTerminalCount(n); err != nil {
		return 0, err
	}
	return rowCount(n), nil
}

// Blocks returns how many blocks the one-sided binary tree over n terminals
// has, ceil(log2 n) + 1 for n >= 1.
func Blocks(n int) (int, error) {
	if err := apperr.ValidateTerminalCount(n); err != nil {
		return 0, err
	}
	return blockCount(n), nil
}

// Columns returns the number of wiring columns, floor(n/2). The packing never
// assigns a column outside [0, Columns(n)).
func Columns(n int) (int, error) {
	if err := apperr.ValidateTerminalCount(n); err != nil {
		return 0, err
	}
	return columnCount(n), nil
}

func rowCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1)
}

func stageCount(n int) int {
	if n < 2 {
		return 0
	}
	return n - 1
}

func columnCount(n int) int { return n / 2 }

func connectionCount(n int) int { return rowCount(n) / 2 }

// blockCount mirrors the split rule of buildTree without allocating.
func blockCount(n int) int {
	count := 0
	m := n
	for m > 1 {
		count++
		m -= m / 2
	}
	if m == 1 {
		count++
	}
	return count
}
