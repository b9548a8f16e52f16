package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/resume"
)

type stubRunner struct {
	jobs    []analysis.Job
	outcome *analysis.Outcome
	err     error
}

func (s *stubRunner) Run(_ context.Context, job analysis.Job) (*analysis.Outcome, error) {
	s.jobs = append(s.jobs, job)
	return s.outcome, s.err
}

type stubResolver struct {
	text string
	err  error
}

func (s stubResolver) Resolve(context.Context, string) (string, error) {
	return s.text, s.err
}

type published struct {
	key    string
	update Update
}

type recordingPublisher struct {
	sent []published
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, key string, update Update) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, published{key: key, update: update})
	return nil
}

type fakeAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (f *fakeAck) Ack(uint64, bool) error { f.acked = true; return nil }

func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func (f *fakeAck) Reject(_ uint64, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestDecodeJob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		kind      string
		malformed bool
	}{
		{name: "defaults kind", body: `{"id":"a","source":"cv.pdf"}`, kind: history.KindAnalysis},
		{name: "improvement", body: `{"id":"a","source":"cv.pdf","kind":"improvement"}`, kind: history.KindImprovement},
		{name: "invalid json", body: `{"id":`, malformed: true},
		{name: "missing source", body: `{"id":"a","source":"  "}`, malformed: true},
		{name: "unknown kind", body: `{"id":"a","source":"cv.pdf","kind":"rewrite"}`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			job, err := DecodeJob([]byte(tt.body))
			if tt.malformed {
				require.ErrorIs(t, err, ErrMalformedJob)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, job.Kind)
			assert.Equal(t, "a", job.ID)
		})
	}
}

func TestDecodeJobGeneratesID(t *testing.T) {
	t.Parallel()

	job, err := DecodeJob([]byte(`{"source":"s3://bucket/cv.docx"}`))
	require.NoError(t, err)
	assert.Len(t, job.ID, 36)
}

func TestHandlePublishesCompleted(t *testing.T) {
	t.Parallel()

	result := &ai.Analysis{OverallScore: 72}
	runner := &stubRunner{outcome: &analysis.Outcome{
		RecordID: "rec-1",
		Profile:  &resume.Profile{},
		Analysis: result,
	}}
	h := NewHandler(runner, stubResolver{text: "Go developer"}, zap.NewNop())
	pub := &recordingPublisher{}

	err := h.Handle(context.Background(), []byte(`{"id":"42","source":"cv.pdf","job_description":"hh:1"}`), pub)
	require.NoError(t, err)

	require.Len(t, runner.jobs, 1)
	assert.Equal(t, "Go developer", runner.jobs[0].JobDescription)
	assert.True(t, runner.jobs[0].Save)

	require.Len(t, pub.sent, 2)
	assert.Equal(t, "analysis.42", pub.sent[0].key)
	assert.Equal(t, StatusProcessing, pub.sent[0].update.Status)
	assert.Equal(t, StatusCompleted, pub.sent[1].update.Status)
	assert.Equal(t, "rec-1", pub.sent[1].update.RecordID)
	assert.Same(t, result, pub.sent[1].update.Result)
}

func TestHandlePublishesFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{err: errors.New("document is empty")}
	h := NewHandler(runner, nil, nil)
	pub := &recordingPublisher{}

	err := h.Handle(context.Background(), []byte(`{"id":"7","source":"cv.pdf"}`), pub)
	require.NoError(t, err)

	require.Len(t, pub.sent, 2)
	assert.Equal(t, StatusFailed, pub.sent[1].update.Status)
	assert.Equal(t, "document is empty", pub.sent[1].update.Error)
	assert.Nil(t, pub.sent[1].update.Result)
}

func TestHandleResolverFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}
	h := NewHandler(runner, stubResolver{err: errors.New("bad status 404")}, nil)
	pub := &recordingPublisher{}

	require.NoError(t, h.Handle(context.Background(), []byte(`{"id":"7","source":"cv.pdf","job_description":"hh:9"}`), pub))
	assert.Empty(t, runner.jobs)
	require.Len(t, pub.sent, 2)
	assert.Equal(t, "job 7: bad status 404", pub.sent[1].update.Error)
}

func TestDeliverAcknowledgement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		pubErr   error
		acked    bool
		requeued bool
	}{
		{name: "processed", body: `{"id":"1","source":"cv.pdf"}`, acked: true},
		{name: "malformed", body: `not json`},
		{name: "publish failure", body: `{"id":"1","source":"cv.pdf"}`, pubErr: errors.New("channel closed"), requeued: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &stubRunner{outcome: &analysis.Outcome{Profile: &resume.Profile{}}}
			pool, err := New(Config{RabbitMQURL: "amqp://localhost"}, NewHandler(runner, nil, nil), nil)
			require.NoError(t, err)

			ack := &fakeAck{}
			msg := amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(tt.body)}
			pool.deliver(context.Background(), zap.NewNop(), msg, &recordingPublisher{err: tt.pubErr})

			assert.Equal(t, tt.acked, ack.acked)
			assert.Equal(t, !tt.acked, ack.nacked)
			assert.Equal(t, tt.requeued, ack.requeued)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	_, err := New(Config{}, NewHandler(&stubRunner{}, nil, nil), nil)
	require.Error(t, err)

	pool, err := New(Config{RabbitMQURL: "amqp://localhost"}, NewHandler(&stubRunner{}, nil, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, defaultQueue, pool.cfg.Queue)
	assert.Equal(t, defaultExchange, pool.cfg.Exchange)
	assert.Equal(t, defaultWorkers, pool.cfg.Workers)
}

func TestConsumerGroupNotConnectedWhenEveryConsumerFails(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	declareErr := errors.New("declare queue resume-analysis: access refused")
	group := startConsumers(ctx, cancel, 3, func(context.Context, int, func()) error {
		return declareErr
	})

	connected, err := group.wait()
	assert.False(t, connected)
	assert.ErrorIs(t, err, declareErr)
	assert.Error(t, ctx.Err(), "a failing consumer cancels the session")
}

func TestConsumerGroupConnectedWhenOneConsumerIsReady(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group := startConsumers(ctx, cancel, 2, func(ctx context.Context, id int, ready func()) error {
		if id == 1 {
			return errors.New("open channel: channel id space exhausted")
		}
		ready()
		<-ctx.Done()
		return nil
	})

	connected, err := group.wait()
	assert.True(t, connected)
	assert.Error(t, err)
}

func TestRunStopsWhileRedialing(t *testing.T) {
	t.Parallel()

	pool, err := New(Config{RabbitMQURL: "amqp://localhost"}, NewHandler(&stubRunner{}, nil, nil), nil)
	require.NoError(t, err)

	dials := 0
	pool.dial = func(string) (*amqp.Connection, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, pool.Run(ctx))
	assert.Equal(t, 1, dials, "the first redial waits for the backoff")
}
