package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"talent-match/internal/usecase"
	"talent-match/internal/worker"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	mu      sync.Mutex
	acked   int
	nacked  int
	requeue bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked++
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(uint64, bool) error { return nil }

func TestDecodeRequest(t *testing.T) {
	id := uuid.New()
	req, err := decodeRequest([]byte(`{"applicationId":"` + id.String() + `"}`))
	require.NoError(t, err)
	assert.Equal(t, id, req.ApplicationID)

	_, err = decodeRequest([]byte(`{}`))
	assert.Error(t, err)
	_, err = decodeRequest([]byte(`not json`))
	assert.Error(t, err)
}

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return errors.New("permanent")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	for _, perm := range []error{usecase.ErrNotFound, usecase.ErrNoResume, usecase.ErrInvalidInput, usecase.ErrPersistenceOff} {
		t.Run(perm.Error(), func(t *testing.T) {
			calls := 0
			err := retry(context.Background(), 3, time.Hour, func() error {
				calls++
				return fmt.Errorf("%w: application 42", perm)
			})
			require.ErrorIs(t, err, perm)
			assert.Equal(t, 1, calls)
		})
	}

	calls := 0
	err := retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return usecase.ErrExtractionFailed
	})
	require.ErrorIs(t, err, usecase.ErrExtractionFailed)
	assert.Equal(t, 2, calls)
}

func TestConsumer_HandleDelivery_PermanentFailure(t *testing.T) {
	c := NewConsumer("", "q", 1, time.Second, nil)
	ack := &fakeAcknowledger{}
	calls := 0
	c.handleDelivery(context.Background(), 1, amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"applicationId":"` + uuid.NewString() + `"}`),
	}, func(context.Context, uuid.UUID) error {
		calls++
		return usecase.ErrNoResume
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestConsumer_HandleDelivery(t *testing.T) {
	c := NewConsumer("", "q", 1, time.Second, nil)
	id := uuid.New()

	ack := &fakeAcknowledger{}
	var got uuid.UUID
	c.handleDelivery(context.Background(), 1, amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"applicationId":"` + id.String() + `"}`),
	}, func(_ context.Context, applicationID uuid.UUID) error {
		got = applicationID
		return nil
	})
	assert.Equal(t, id, got)
	assert.Equal(t, 1, ack.acked)

	bad := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), 1, amqp.Delivery{Acknowledger: bad, Body: []byte(`{}`)}, func(context.Context, uuid.UUID) error {
		t.Error("handler must not run for malformed messages")
		return nil
	})
	assert.Equal(t, 1, bad.nacked)
	assert.False(t, bad.requeue)
}

func TestMemoryDispatcher(t *testing.T) {
	pool := worker.NewPool(worker.Options{Workers: 2, Buffer: 8}, nil)
	pool.Start(context.Background())

	var n atomic.Int32
	d := NewMemoryDispatcher(pool, func(context.Context, uuid.UUID) error {
		n.Add(1)
		return nil
	})
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Dispatch(context.Background(), uuid.New()))
	}
	pool.Close()

	assert.Equal(t, int32(5), n.Load())
	assert.ErrorIs(t, d.Dispatch(context.Background(), uuid.New()), worker.ErrPoolClosed)
}

func TestAMQP_PublishConsume(t *testing.T) {
	url := os.Getenv("TALENTMATCH_TEST_AMQP_URL")
	if url == "" {
		t.Skip("TALENTMATCH_TEST_AMQP_URL not set")
	}
	queueName := "talentmatch_test_" + uuid.NewString()

	pub, err := NewAMQPPublisher(url, queueName, nil)
	require.NoError(t, err)
	defer pub.Close()

	id := uuid.New()
	require.NoError(t, pub.Dispatch(context.Background(), id))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan uuid.UUID, 1)
	go func() {
		_ = NewConsumer(url, queueName, 1, time.Second, nil).Run(ctx, func(_ context.Context, applicationID uuid.UUID) error {
			got <- applicationID
			cancel()
			return nil
		})
	}()

	select {
	case v := <-got:
		assert.Equal(t, id, v)
	case <-time.After(10 * time.Second):
		t.Fatal("message not consumed")
	}
}
