package game

import "errors"

// Move rejections. None of them mutate the grid.
var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrColumnFull    = errors.New("column is full")
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrColumnEmpty   = errors.New("column is empty")
)
