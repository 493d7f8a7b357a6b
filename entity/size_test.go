package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	tests := []struct {
		size     Size
		st       SizeType
		exact    bool
		expected string
	}{
		{Size{Actual: 0}, SizeActual, false, "0 B"},
		{Size{Actual: 500}, SizeActual, false, "500 B"},
		{Size{Actual: 1536}, SizeActual, false, "1.5 KiB"},
		{Size{Apparent: 1048576}, SizeApparent, false, "1.0 MiB"},
		{Size{Apparent: 1048576}, SizeApparent, true, "1048576"},
		{Size{Count: 42}, SizeCount, false, "42"},
		{Size{Count: 1500}, SizeCount, false, "1.5 k"},
		{Size{Count: 1500}, SizeCount, true, "1500"},
		{Size{Actual: -1}, SizeActual, false, "0 B"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, HumanSize(test.size, test.st, test.exact), "%v %s exact=%t", test.size, test.st, test.exact)
	}
}

func TestSelectSizeType(t *testing.T) {
	assert.Equal(t, SizeActual, SelectSizeType(false, false))
	assert.Equal(t, SizeApparent, SelectSizeType(true, false))
	assert.Equal(t, SizeCount, SelectSizeType(false, true))
	assert.Equal(t, SizeCount, SelectSizeType(true, true))
}

func TestSizeGetAndAdd(t *testing.T) {
	s := Size{Apparent: 1, Actual: 2, Count: 3}
	s.Add(Size{Apparent: 10, Actual: 20, Count: 30})

	assert.Equal(t, int64(11), s.Get(SizeApparent))
	assert.Equal(t, int64(22), s.Get(SizeActual))
	assert.Equal(t, int64(33), s.Get(SizeCount))
}
