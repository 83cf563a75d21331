package question

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/logger"
)

// Entry registers a generator in a level's pool with the option count it promises.
type Entry struct {
	Kind     Kind
	Options  int
	Generate GenerateFunc
}

// DefaultPools maps each level to its generators. Professional is a known
// level without generators yet.
func DefaultPools() map[common.Level][]Entry {
	return map[common.Level][]Entry{
		common.LevelEntry:        EntryPool,
		common.LevelAssociate:    AssociatePool,
		common.LevelProfessional: nil,
	}
}

// Dispatcher picks a generator for a level and checks what it returns.
type Dispatcher struct {
	gen   *Generator
	pools map[common.Level][]Entry
	log   *logrus.Entry
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPool replaces the pool of one level.
func WithPool(level common.Level, entries []Entry) DispatcherOption {
	return func(d *Dispatcher) {
		d.pools[level] = entries
	}
}

func NewDispatcher(gen *Generator, opts ...DispatcherOption) *Dispatcher {
	if gen == nil {
		gen = NewGenerator(nil, nil)
	}
	d := &Dispatcher{
		gen:   gen,
		pools: DefaultPools(),
		log:   logger.Log.ForGenerator("dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Pool returns the generators registered for level.
func (d *Dispatcher) Pool(level common.Level) []Entry {
	return d.pools[level]
}

// Next produces one question for the named level. It makes a single attempt:
// callers decide whether to ask again after an error.
func (d *Dispatcher) Next(level string) (*Question, error) {
	lvl, ok := common.ParseLevel(level)
	if !ok {
		d.log.Warnf("no question pool for level %q", level)
		return nil, errors.Wrapf(ErrUnknownLevel, "%q", level)
	}
	pool := d.pools[lvl]
	if len(pool) == 0 {
		d.log.WithField(common.LevelName, lvl).Warn("level has no question generators")
		return nil, errors.Wrapf(ErrEmptyPool, "%s", lvl)
	}

	entry := pool[d.gen.rng.IntN(len(pool))]
	log := d.log.WithFields(logrus.Fields{common.LevelName: lvl, common.GeneratorName: entry.Kind})

	q, err := d.gen.Generate(entry.Generate)
	if err != nil {
		log.WithError(err).Warn("question generation failed")
		return nil, errors.Wrapf(ErrInvalidQuestion, "%s: %v", entry.Kind, err)
	}
	if err := q.Validate(entry.Options); err != nil {
		log.WithError(err).Warn("discarding malformed question")
		return nil, err
	}
	log.Debugf("generated %s question", entry.Kind)
	return q, nil
}
