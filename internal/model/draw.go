package model

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"
)

const (
	// MinNumber and MaxNumber bound every main and bonus number of a draw.
	MinNumber = 1
	MaxNumber = 45

	// PickCount is the amount of main numbers in a draw and in a combination.
	PickCount = 6
)

var ErrInvalidDraw = errors.New("invalid draw record")

// Draw is one historical draw result. Numbers is always sorted ascending.
type Draw struct {
	Round    int         `json:"round" validate:"required,min=1"`
	DrawDate null.String `json:"drawDate" swaggertype:"string"`
	Numbers  []int       `json:"numbers" validate:"len=6,unique,dive,ball"`
	Bonus    int         `json:"bonus" validate:"ball"`
}

// NewDraw builds a Draw from loosely ordered numbers, sorting them and
// rejecting records that violate the draw rules.
func NewDraw(round int, drawDate null.String, numbers []int, bonus int) (Draw, error) {
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)

	d := Draw{
		Round:    round,
		DrawDate: drawDate,
		Numbers:  sorted,
		Bonus:    bonus,
	}
	if err := d.Validate(); err != nil {
		return Draw{}, err
	}
	return d, nil
}

func (d *Draw) Validate() error {
	if err := drawValidator.Struct(d); err != nil {
		return errors.Wrap(ErrInvalidDraw, err.Error())
	}
	if slices.Contains(d.Numbers, d.Bonus) {
		return errors.Wrapf(ErrInvalidDraw, "round %d: bonus %d duplicates a main number", d.Round, d.Bonus)
	}
	return nil
}

// RoundInfo describes the most recent draw known to the service.
type RoundInfo struct {
	LatestRound    int         `json:"latestRound"`
	LatestDrawDate null.String `json:"latestDrawDate" swaggertype:"string"`
}

func RoundInfoOf(d Draw) *RoundInfo {
	return &RoundInfo{
		LatestRound:    d.Round,
		LatestDrawDate: d.DrawDate,
	}
}

// DrawDateOf wraps a raw date cell; blank cells become null.
func DrawDateOf(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}
