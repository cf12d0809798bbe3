package core

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// WorkGroupSize is the number of rows handed to one worker per dispatch.
// Grid dimensions must be a multiple of it.
const WorkGroupSize = 8

// Index returns the linear slice index for coordinates (x, y) in row-major order.
func (s Size) Index(x, y int) int { return y*s.W + x }

// Contains reports whether (x, y) lies inside the grid.
func (s Size) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.W && y < s.H
}

// Cells returns the number of cells covered by the grid.
func (s Size) Cells() int { return s.W * s.H }

// Groups returns the number of work groups a dispatch over s is split into.
func (s Size) Groups() int {
	return (s.H + WorkGroupSize - 1) / WorkGroupSize
}

// Dispatch evaluates kernel for every coordinate of the grid. Each work group
// runs on its own goroutine, with at most workers running at once (workers <= 0
// means unlimited). Kernels must write only the cell they are invoked for.
//
// A panicking kernel is reported as an error instead of crashing the process;
// the grid is left in an undefined state and must be reinitialised.
func Dispatch(size Size, workers int, kernel func(x, y int)) error {
	if size.W <= 0 || size.H <= 0 {
		return nil
	}
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	groups := size.Groups()
	for group := 0; group < groups; group++ {
		y0 := group * WorkGroupSize
		y1 := min(y0+WorkGroupSize, size.H)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("work group %d: %v", group, r)
				}
			}()
			for y := y0; y < y1; y++ {
				for x := 0; x < size.W; x++ {
					kernel(x, y)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
