// Copyright (c) 2026 MIZDB. All rights reserved.

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Actionb/MIZDB-sub002/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "12"}, slice.Map([]int64{1, 12}, func(id int64) string {
		return strconv.FormatInt(id, 10)
	}))
	assert.Nil(t, slice.Map[int, int](nil, func(v int) int { return v }))
}

func TestFilter(t *testing.T) {
	nonZero := func(v int) bool { return v != 0 }
	assert.Equal(t, []int{2000, 2001}, slice.Filter([]int{0, 2000, 0, 2001}, nonZero))
	assert.Nil(t, slice.Filter([]int{0}, nonZero))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int{12, 1}, slice.Unique([]int{12, 1, 12, 1}))
	assert.Empty(t, slice.Unique([]int{}))
	assert.Nil(t, slice.Unique[int](nil))
}
