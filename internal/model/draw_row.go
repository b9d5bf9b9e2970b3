package model

import (
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// DrawRow is the persisted form of a Draw in the draws table.
type DrawRow struct {
	bun.BaseModel `bun:"draws,alias:d"`

	Round    int         `bun:"round,pk"`
	DrawDate null.String `bun:"draw_date"`
	Num1     int         `bun:"num1,notnull"`
	Num2     int         `bun:"num2,notnull"`
	Num3     int         `bun:"num3,notnull"`
	Num4     int         `bun:"num4,notnull"`
	Num5     int         `bun:"num5,notnull"`
	Num6     int         `bun:"num6,notnull"`
	Bonus    int         `bun:"bonus,notnull"`
}

func NewDrawRow(d Draw) *DrawRow {
	r := &DrawRow{
		Round:    d.Round,
		DrawDate: d.DrawDate,
		Bonus:    d.Bonus,
	}
	if len(d.Numbers) == PickCount {
		r.Num1, r.Num2, r.Num3 = d.Numbers[0], d.Numbers[1], d.Numbers[2]
		r.Num4, r.Num5, r.Num6 = d.Numbers[3], d.Numbers[4], d.Numbers[5]
	}
	return r
}

// Draw validates the row and converts it back into a Draw.
func (r *DrawRow) Draw() (Draw, error) {
	return NewDraw(r.Round, r.DrawDate, []int{r.Num1, r.Num2, r.Num3, r.Num4, r.Num5, r.Num6}, r.Bonus)
}
