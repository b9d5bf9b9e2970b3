package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/lottopro/backend/internal/model"
)

var ErrMissingColumns = errors.New("required columns missing")

var zipMagic = []byte("PK\x03\x04")

const (
	colRound = "round"
	colDate  = "draw_date"
	colBonus = "bonus"
)

// columnAliases maps lower-cased header spellings to canonical columns.
var columnAliases = func() map[string]string {
	m := map[string]string{}
	add := func(canonical string, aliases ...string) {
		for _, a := range aliases {
			m[strings.ToLower(a)] = canonical
		}
	}
	add(colRound, "round", "draw_no", "drwNo", "회차")
	add(colDate, "draw_date", "date", "drwNoDate", "추첨일")
	add(colBonus, "bonus_num", "bonus", "bnusNo", "보너스번호")
	for i := 1; i <= model.PickCount; i++ {
		n := string(rune('0' + i))
		add("num"+n, "num"+n, "n"+n, "drwtNo"+n, "당첨번호"+n)
	}
	return m
}()

// Structured parses the resource as a table with a named header row. xlsx
// workbooks are read from their first sheet, anything else as CSV.
type Structured struct{}

func (Structured) Name() string { return model.StageStructured }

func (Structured) Attempt(ctx context.Context, res *Resource) ([]model.Draw, error) {
	data, err := res.Bytes(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := readTable(res.Location, data)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrNoRecords
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	draws := make([]model.Draw, 0, len(rows)-1)
	for i, row := range rows[1:] {
		d, err := columns.draw(row)
		if err != nil {
			log.Trace().
				Err(err).
				Str("evt.name", "source.row.skip").
				Str("stage", model.StageStructured).
				Int("line", i+2).
				Msg("skipping malformed row")
			continue
		}
		draws = append(draws, d)
	}
	if len(draws) == 0 {
		return nil, ErrNoRecords
	}
	return draws, nil
}

func isWorkbook(location string, data []byte) bool {
	switch strings.ToLower(path.Ext(strings.SplitN(location, "?", 2)[0])) {
	case ".xlsx", ".xlsm":
		return true
	}
	return bytes.HasPrefix(data, zipMagic)
}

func readTable(location string, data []byte) ([][]string, error) {
	if isWorkbook(location, data) {
		return readWorkbook(data)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	return rows, nil
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "read workbook rows")
	}
	return rows, nil
}

// columnIndex holds the header position of every canonical column; -1 if absent.
type columnIndex struct {
	round   int
	date    int
	numbers [model.PickCount]int
	bonus   int
}

func mapColumns(header []string) (*columnIndex, error) {
	idx := &columnIndex{round: -1, date: -1, bonus: -1}
	for i := range idx.numbers {
		idx.numbers[i] = -1
	}

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		canonical, ok := columnAliases[name]
		if !ok {
			continue
		}
		switch {
		case canonical == colRound && idx.round < 0:
			idx.round = i
		case canonical == colDate && idx.date < 0:
			idx.date = i
		case canonical == colBonus && idx.bonus < 0:
			idx.bonus = i
		case strings.HasPrefix(canonical, "num"):
			k := int(canonical[3] - '1')
			if idx.numbers[k] < 0 {
				idx.numbers[k] = i
			}
		}
	}

	var missing []string
	if idx.round < 0 {
		missing = append(missing, colRound)
	}
	for i, c := range idx.numbers {
		if c < 0 {
			missing = append(missing, "num"+string(rune('1'+i)))
		}
	}
	if idx.bonus < 0 {
		missing = append(missing, colBonus)
	}
	if len(missing) > 0 {
		return nil, errors.Wrap(ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c *columnIndex) draw(row []string) (model.Draw, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	round, ok := parseInt(cell(c.round))
	if !ok {
		return model.Draw{}, errors.Wrapf(model.ErrInvalidDraw, "bad round %q", cell(c.round))
	}
	numbers := make([]int, model.PickCount)
	for i, col := range c.numbers {
		n, ok := parseInt(cell(col))
		if !ok {
			return model.Draw{}, errors.Wrapf(model.ErrInvalidDraw, "round %d: bad number %q", round, cell(col))
		}
		numbers[i] = n
	}
	bonus, ok := parseInt(cell(c.bonus))
	if !ok {
		return model.Draw{}, errors.Wrapf(model.ErrInvalidDraw, "round %d: bad bonus %q", round, cell(c.bonus))
	}

	return model.NewDraw(round, model.DrawDateOf(cell(c.date)), numbers, bonus)
}
