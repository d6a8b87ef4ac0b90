package llm

import "context"

// MockClient permite tests sin llamar a un LLM real. Captura los argumentos
// de la última invocación.
type MockClient struct {
	Response string
	Err      error

	Calls        int
	SystemPrompt string
	History      []Message
}

func (m *MockClient) Complete(_ context.Context, systemPrompt string, history []Message) (string, error) {
	m.Calls++
	m.SystemPrompt = systemPrompt
	m.History = append([]Message(nil), history...)
	return m.Response, m.Err
}
