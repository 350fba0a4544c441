package llm

import (
	"context"
	"sync"
)

// MockReply 预置的一次返回
type MockReply struct {
	Text string
	Err  error
}

// MockCall 记录一次调用的入参
type MockCall struct {
	Messages []Message
	Options  Options
}

// MockProvider 按 FIFO 顺序返回预置结果并记录所有调用，用于测试与本地演示
type MockProvider struct {
	mu        sync.Mutex
	replies   []MockReply
	available bool
	Calls     []MockCall
}

func NewMockProvider(replies ...MockReply) *MockProvider {
	return &MockProvider{replies: replies, available: true}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// SetAvailable 模拟未配置凭据的提供方
func (m *MockProvider) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

func (m *MockProvider) GenerateCompletion(_ context.Context, messages []Message, opts Options) (*Completion, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.available {
		return nil, &ConfigurationError{Provider: "mock", Missing: []string{"MOCK_ENABLED"}}
	}

	m.Calls = append(m.Calls, MockCall{Messages: messages, Options: opts})

	if len(m.replies) == 0 {
		return nil, &UpstreamError{Provider: "mock", Body: "no scripted reply left"}
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &Completion{Text: reply.Text}, nil
}

// Enqueue 追加预置结果
func (m *MockProvider) Enqueue(replies ...MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
