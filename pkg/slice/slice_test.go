// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/dashboard/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"40", "65"}, slice.Map([]int{40, 65}, strconv.Itoa))
	assert.Empty(t, slice.Map([]int{}, strconv.Itoa))
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
}
