package core

import "sync"

// Memory holds conversation history keyed by session. Histories start empty,
// grow by exactly one (user, assistant) exchange per completed request and
// are never truncated for the life of the process. All access is serialized,
// so concurrent requests on different sessions cannot see each other's
// turns and appends within one exchange are atomic.
type Memory struct {
	mu       sync.Mutex
	sessions map[string][]Turn
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string][]Turn)}
}

// History returns a copy of the session's turns in append order.
func (m *Memory) History(session string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns := m.sessions[session]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// AppendExchange records a completed question/answer pair as two turns.
func (m *Memory) AppendExchange(session, question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session] = append(m.sessions[session],
		Turn{Role: RoleUser, Content: question},
		Turn{Role: RoleAssistant, Content: answer},
	)
}
