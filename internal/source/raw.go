package source

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lottopro/backend/internal/model"
)

// Raw parses the resource line by line without relying on a header. Lines
// with 9 fields are round, date, six numbers and bonus; lines with 8 fields
// omit the date.
type Raw struct{}

func (Raw) Name() string { return model.StageRaw }

func (Raw) Attempt(ctx context.Context, res *Resource) ([]model.Draw, error) {
	data, err := res.Bytes(ctx)
	if err != nil {
		return nil, err
	}
	if isWorkbook(res.Location, data) {
		return nil, errors.Wrap(ErrNoRecords, "binary workbook cannot be parsed line by line")
	}

	var draws []model.Draw
	scanner := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		d, header, err := parseRawLine(text)
		if header {
			continue
		}
		if err != nil {
			log.Trace().
				Err(err).
				Str("evt.name", "source.row.skip").
				Str("stage", model.StageRaw).
				Int("line", line).
				Msg("skipping malformed line")
			continue
		}
		draws = append(draws, d)
	}
	if err := scanner.Err(); err != nil && len(draws) == 0 {
		return nil, errors.Wrap(err, "scan resource")
	}
	if len(draws) == 0 {
		return nil, ErrNoRecords
	}
	return draws, nil
}

func parseRawLine(text string) (d model.Draw, header bool, err error) {
	fields := strings.Split(text, ",")
	for i := range fields {
		fields[i] = strings.Trim(strings.TrimSpace(fields[i]), `"`)
	}

	round, ok := parseInt(fields[0])
	if !ok {
		return model.Draw{}, true, nil
	}

	var date string
	var rest []string
	switch len(fields) {
	case 9:
		date, rest = fields[1], fields[2:]
	case 8:
		rest = fields[1:]
	default:
		return model.Draw{}, false, errors.Wrapf(model.ErrInvalidDraw, "round %d: expected 8 or 9 fields, got %d", round, len(fields))
	}

	values := make([]int, len(rest))
	for i, f := range rest {
		n, ok := parseInt(f)
		if !ok {
			return model.Draw{}, false, errors.Wrapf(model.ErrInvalidDraw, "round %d: bad value %q", round, f)
		}
		values[i] = n
	}

	d, err = model.NewDraw(round, model.DrawDateOf(date), values[:model.PickCount], values[model.PickCount])
	return d, false, err
}
