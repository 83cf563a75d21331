package question

import (
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensylisir/ipsprint/common"
)

func newTestDispatcher(opts ...DispatcherOption) *Dispatcher {
	return NewDispatcher(NewGenerator(rand.New(rand.NewPCG(99, 100)), nil), opts...)
}

func TestDispatcher_EntryNeverFails(t *testing.T) {
	d := newTestDispatcher()
	kinds := map[Kind]int{}
	for i := 0; i < 1000; i++ {
		q, err := d.Next("Entry")
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, common.LevelEntry, q.Level)
		kinds[q.Kind]++
	}
	assert.Len(t, kinds, len(EntryPool), "every entry generator should be picked")
}

func TestDispatcher_Associate(t *testing.T) {
	d := newTestDispatcher()
	for i := 0; i < 400; i++ {
		q, err := d.Next("associate")
		require.NoError(t, err)
		assert.Equal(t, common.LevelAssociate, q.Level)
	}
}

func TestDispatcher_UnknownLevel(t *testing.T) {
	d := newTestDispatcher()
	q, err := d.Next("Expert")
	assert.Nil(t, q)
	assert.True(t, errors.Is(err, ErrUnknownLevel))
}

func TestDispatcher_EmptyPool(t *testing.T) {
	d := newTestDispatcher()
	q, err := d.Next("Professional")
	assert.Nil(t, q)
	assert.True(t, errors.Is(err, ErrEmptyPool))
}

func TestDispatcher_RejectsMalformed(t *testing.T) {
	missingAnswer := func(*Generator) (*Question, error) {
		return &Question{Prompt: "p", Options: []string{"a", "b"}, Answer: "z"}, nil
	}
	d := newTestDispatcher(WithPool(common.LevelEntry, []Entry{{Kind: "broken", Options: 2, Generate: missingAnswer}}))
	q, err := d.Next("Entry")
	assert.Nil(t, q)
	assert.True(t, errors.Is(err, ErrInvalidQuestion))
}

func TestDispatcher_WrongOptionCount(t *testing.T) {
	short := func(*Generator) (*Question, error) {
		return &Question{Prompt: "p", Options: []string{"a", "b"}, Answer: "a"}, nil
	}
	d := newTestDispatcher(WithPool(common.LevelEntry, []Entry{{Kind: "short", Options: 4, Generate: short}}))
	_, err := d.Next("Entry")
	assert.True(t, errors.Is(err, ErrInvalidQuestion))
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	boom := func(*Generator) (*Question, error) {
		panic("boom")
	}
	failing := func(*Generator) (*Question, error) {
		return nil, errors.New("no luck")
	}
	for name, fn := range map[string]GenerateFunc{"panic": boom, "error": failing} {
		t.Run(name, func(t *testing.T) {
			d := newTestDispatcher(WithPool(common.LevelAssociate, []Entry{{Kind: Kind(name), Options: 4, Generate: fn}}))
			q, err := d.Next("Associate")
			assert.Nil(t, q)
			assert.True(t, errors.Is(err, ErrInvalidQuestion))
		})
	}
}

func TestDefaultPools(t *testing.T) {
	pools := DefaultPools()
	for _, l := range common.Levels {
		_, ok := pools[l]
		assert.True(t, ok, "level %s should be registered", l)
	}
	assert.Empty(t, pools[common.LevelProfessional])
}
