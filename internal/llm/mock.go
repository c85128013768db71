package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned reply. A non-nil Err is returned instead of
// content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays queued responses and records every request. Once
// the queue is empty it answers from the sample set for the request's
// purpose, or fails with ErrProviderUnavailable when it has none.
type MockProvider struct {
	mu      sync.Mutex
	queue   []MockResponse
	samples map[string]json.RawMessage
	Calls   []Request
}

// NewMockProvider creates a provider that only replays responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// NewSampleProvider creates a provider that writes fixed reading passages
// and word lists, for running the generated source without an API key.
func NewSampleProvider() *MockProvider {
	return &MockProvider{samples: map[string]json.RawMessage{
		PurposeReading: json.RawMessage(`{"title":"Morning Market","content":"Early on a Saturday the market fills with voices. ` +
			`Farmers stack crates of apples and pears while the baker sets out loaves still warm from the oven. ` +
			`A small dog waits patiently beside the cheese stall, hoping for a crumb. Children count coins for honey sticks, ` +
			`and an old man tunes his guitar near the fountain. By noon the baskets are heavy, the crates are light, ` +
			`and the square smells of bread, flowers and rain."}`),
		PurposeMemory: json.RawMessage(`{"words":["lantern","carrot","violin","blanket","pebble","kettle",` +
			`"saddle","lemon","ladder","thimble","canoe","walnut"]}`),
	}}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.queue) > 0:
		resp, m.queue = m.queue[0], m.queue[1:]
	case m.samples[PurposeFrom(ctx)] != nil:
		resp.Content = m.samples[PurposeFrom(ctx)]
	default:
		return nil, &ErrProviderUnavailable{}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      NameMock,
		StopReason: StopEnd,
	}, nil
}

func (m *MockProvider) Name() string    { return NameMock }
func (m *MockProvider) ModelID() string { return NameMock }

// AddResponse queues another response.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
