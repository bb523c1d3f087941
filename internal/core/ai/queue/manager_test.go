package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"recipe-planner/internal/core/ai/provider"
	"recipe-planner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls   int32
	release chan struct{}
	err     error
}

func (p *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &provider.Response{Content: "echo:" + req.Messages[0].Content}, nil
}

func (p *fakeProvider) GetModel() string { return "fake" }
func (p *fakeProvider) GetTimeout() time.Duration { return 0 }
func (p *fakeProvider) Close() error { return nil }

func request(content string) *provider.Request {
	return &provider.Request{Messages: []provider.Message{{Role: "user", Content: content}}}
}

func TestManagerDo(t *testing.T) {
	p := &fakeProvider{}
	m := NewManager(&config.QueueConfig{Workers: 2, MaxSize: 4}, p)
	defer m.Close()

	resp, err := m.Do(context.Background(), request("sambar"))
	require.NoError(t, err)
	assert.Equal(t, "echo:sambar", resp.Content)

	status := m.GetQueueStatus()
	assert.Equal(t, 1, status.ProcessedCount)
	assert.Equal(t, 2, status.Workers)
	assert.Equal(t, 4, status.MaxQueueSize)
}

func TestManagerPropagatesProviderError(t *testing.T) {
	boom := errors.New("upstream down")
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, &fakeProvider{err: boom})
	defer m.Close()

	_, err := m.Do(context.Background(), request("x"))
	assert.ErrorIs(t, err, boom)
}

func TestManagerQueueFull(t *testing.T) {
	p := &fakeProvider{release: make(chan struct{})}
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, p)
	defer m.Close()
	defer close(p.release)

	// 第一個請求佔住 worker
	first, err := m.Enqueue(context.Background(), request("1"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&p.calls) == 1 }, time.Second, 5*time.Millisecond)

	// 第二個請求佔滿隊列
	_, err = m.Enqueue(context.Background(), request("2"))
	require.NoError(t, err)

	_, err = m.Enqueue(context.Background(), request("3"))
	assert.ErrorIs(t, err, ErrQueueFull)

	p.release <- struct{}{}
	res := <-first
	require.NoError(t, res.Error)
	assert.Equal(t, "echo:1", res.Response.Content)
}

func TestManagerSkipsAbandonedRequests(t *testing.T) {
	p := &fakeProvider{}
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, p)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Do(ctx, request("late"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerClosed(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, &fakeProvider{})
	m.Close()
	m.Close()

	_, err := m.Enqueue(context.Background(), request("x"))
	assert.ErrorIs(t, err, ErrQueueClosed)
}
