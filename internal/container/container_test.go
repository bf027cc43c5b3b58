package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestCloseRunsInReverseAndCollectsErrors(t *testing.T) {
	var order []int
	c := &Container{}
	c.OnClose(func() error { order = append(order, 1); return errors.New("first") })
	c.OnClose(func() error { order = append(order, 2); return nil })
	c.OnClose(func() error { order = append(order, 3); return errors.New("third") })

	err := c.Close()
	assert.Equal(t, []int{3, 2, 1}, order)
	assert.Len(t, multierr.Errors(err), 2)

	assert.NoError(t, c.Close())
}
