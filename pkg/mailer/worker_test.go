package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anycompany/carmarket/pkg/helpers"
)

type fakeDeliverer struct {
	to, subject, text, html string
	err                     error
}

func (f *fakeDeliverer) Deliver(_ context.Context, to, subject, text, html string) error {
	f.to, f.subject, f.text, f.html = to, subject, text, html
	return f.err
}

func TestWorker_Handle(t *testing.T) {
	d := &fakeDeliverer{}
	w := &Worker{Deliverer: d, Logger: helpers.NewDiscardLogger()}

	out := w.Handle(context.Background(), []byte(`{"to":"a@example.com","template":"welcome","data":{"Name":"Ann","Role":"buyer","AppName":"carmarket"}}`))
	assert.Equal(t, Ack, out)
	assert.Equal(t, "a@example.com", d.to)
	assert.Equal(t, "Welcome to carmarket", d.subject)
	require.Contains(t, d.text, "Hi Ann")
	assert.NotEmpty(t, d.html)
}

func TestWorker_HandleFailures(t *testing.T) {
	w := &Worker{Deliverer: &fakeDeliverer{}, Logger: helpers.NewDiscardLogger()}
	assert.Equal(t, Drop, w.Handle(context.Background(), []byte(`not json`)))
	assert.Equal(t, Drop, w.Handle(context.Background(), []byte(`{"to":"a@example.com","template":"missing"}`)))

	w.Deliverer = &fakeDeliverer{err: errors.New("mailgun down")}
	assert.Equal(t, Retry, w.Handle(context.Background(), []byte(`{"to":"a@example.com","template":"welcome"}`)))
}
