package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// SizeType selects which facet of a Size drives sorting, thresholds and display.
type SizeType int

const (
	SizeActual SizeType = iota
	SizeApparent
	SizeCount
)

func (t SizeType) String() string {
	switch t {
	case SizeApparent:
		return "apparent"
	case SizeCount:
		return "count"
	default:
		return "actual"
	}
}

// SelectSizeType resolves the command line flags to the active size type.
// count takes precedence over apparent.
func SelectSizeType(apparent, count bool) SizeType {
	switch {
	case count:
		return SizeCount
	case apparent:
		return SizeApparent
	default:
		return SizeActual
	}
}

// Size holds the three facets tracked for every file and directory.
type Size struct {
	Apparent int64
	Actual   int64
	Count    int64
}

func (s Size) Get(t SizeType) int64 {
	switch t {
	case SizeApparent:
		return s.Apparent
	case SizeCount:
		return s.Count
	default:
		return s.Actual
	}
}

// Add accumulates o into s.
func (s *Size) Add(o Size) {
	s.Apparent += o.Apparent
	s.Actual += o.Actual
	s.Count += o.Count
}

// HumanSize formats the facet t of s. With exact set the raw number is returned.
func HumanSize(s Size, t SizeType, exact bool) string {
	v := s.Get(t)
	if exact {
		return strconv.FormatInt(v, 10)
	}
	if v < 0 {
		v = 0
	}
	if t == SizeCount {
		if v < 1000 {
			return strconv.FormatInt(v, 10)
		}
		return strings.TrimSpace(humanize.SIWithDigits(float64(v), 1, ""))
	}
	return humanize.IBytes(uint64(v))
}

func (s Size) String() string {
	return fmt.Sprintf("apparent=%d actual=%d count=%d", s.Apparent, s.Actual, s.Count)
}
