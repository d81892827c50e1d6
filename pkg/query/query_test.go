package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Actionb/MIZDB-sub002/pkg/query"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"-volume", "id"}, query.StringSlice(" -volume, ,id "))
}

func TestInt64Slice(t *testing.T) {
	ids, ok := query.Int64Slice([]string{"3", "1", "2"})
	assert.True(t, ok)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	_, ok = query.Int64Slice([]string{"3", "x"})
	assert.False(t, ok)
}
