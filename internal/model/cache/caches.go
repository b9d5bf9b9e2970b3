package cache

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/pkg/cache"
)

var ErrUnknownCache = errors.New("unknown cache name")

type Flusher func() error

// Caches holds every in-process cache cell derived from the draw history.
type Caches struct {
	StatisticSets *cache.Singular[*model.StatisticSets]
	StatsView     *cache.Singular[*model.StatsView]

	SingularFlusherMap map[string]Flusher
}

func New() *Caches {
	c := &Caches{
		StatisticSets: cache.NewSingular[*model.StatisticSets]("statisticSets"),
		StatsView:     cache.NewSingular[*model.StatsView]("statsView"),
	}

	c.SingularFlusherMap = map[string]Flusher{
		c.StatisticSets.Key(): c.StatisticSets.Delete,
		c.StatsView.Key():     c.StatsView.Delete,
	}
	return c
}

// Delete flushes the named cache, or every cache when name is empty.
func (c *Caches) Delete(name string) error {
	if name == "" {
		return c.Flush()
	}
	f, ok := c.SingularFlusherMap[name]
	if !ok {
		return errors.Wrap(ErrUnknownCache, name)
	}
	return f()
}

func (c *Caches) Flush() error {
	for _, name := range c.Names() {
		if err := c.SingularFlusherMap[name](); err != nil {
			return errors.Wrapf(err, "flush %s", name)
		}
	}
	return nil
}

func (c *Caches) Names() []string {
	names := make([]string, 0, len(c.SingularFlusherMap))
	for name := range c.SingularFlusherMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
