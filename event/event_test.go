package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type ctx struct {
	log []string
}

var (
	ping = NewType[string]("ping")
	pong = NewType[int]("pong")
)

func record(name string) func(c *ctx, e string) error {
	return func(c *ctx, e string) error {
		c.log = append(c.log, name+":"+e)
		return nil
	}
}

func TestFireOrder(t *testing.T) {
	d := NewDispatcher[*ctx]()
	d.Add("a", On(ping, record("a")), On(ping, record("a-after")).After())
	d.Add("b", On(ping, record("b-before")).Before())
	d.Add("c", On(ping, record("c")))

	c := &ctx{}
	require.NoError(t, Fire(d, c, ping, "x"))
	require.Equal(t, []string{"b-before:x", "a:x", "c:x", "a-after:x"}, c.log)
	require.Equal(t, 4, Count(d, ping))

	t.Run("other types are not called", func(t *testing.T) {
		c := &ctx{}
		require.NoError(t, Fire(d, c, pong, 3))
		require.Empty(t, c.log)
		require.Zero(t, Count(d, pong))
	})

	t.Run("types compare by identity", func(t *testing.T) {
		c := &ctx{}
		require.NoError(t, Fire(d, c, NewType[string]("ping"), "y"))
		require.Empty(t, c.log)
	})
}

func TestFireErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	d := NewDispatcher[*ctx]()
	d.Add("first", On(ping, record("first")).Before())
	d.Add("a", On(ping, func(*ctx, string) error { return errA }))
	d.Add("b", On(ping, func(*ctx, string) error { return errB }))
	d.Add("peer", On(ping, record("peer")))
	d.Add("late", On(ping, record("late")).After())

	c := &ctx{}
	err := Fire(d, c, ping, "x")
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)

	// the failing tier still ran completely, the after tier did not
	require.Equal(t, []string{"first:x", "peer:x"}, c.log)

	var he *HandlerError
	require.ErrorAs(t, err, &he)
	require.Equal(t, "a", he.Owner)
	require.Equal(t, Unconstrained, he.Order)
	require.Equal(t, "ping", he.Event)
}
