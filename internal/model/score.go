package model

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Score is a credibility percentage in [0, 100]. The backend reports floats
// with two decimals; they are rounded on decode.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	raw := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(raw) == 0 || string(raw) == "null" {
		*s = 0
		return nil
	}
	value, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return fmt.Errorf("decode credibility score failed: %w", err)
	}
	*s = NewScore(value)
	return nil
}

func NewScore(value float64) Score {
	if math.IsNaN(value) {
		return 0
	}
	rounded := math.Round(value)
	switch {
	case rounded < 0:
		return 0
	case rounded > 100:
		return 100
	}
	return Score(rounded)
}

func (s Score) Level() Level {
	switch {
	case s >= 70:
		return LevelHigh
	case s >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

func (s Score) String() string {
	return strconv.Itoa(int(s)) + "%"
}
