package llm

import "context"

// ReplyNotConfigured es la respuesta fija cuando el proveedor no está habilitado.
const ReplyNotConfigured = "🤖 AI not configured on this server yet. Add OPENAI_API_KEY to enable real replies."

type disabledClient struct{}

// NewDisabledClient devuelve un Client que nunca llama a un proveedor externo
// y responde siempre con el aviso de que la IA no está habilitada.
func NewDisabledClient() Client {
	return disabledClient{}
}

func (disabledClient) Complete(_ context.Context, _ string, _ []Message) (string, error) {
	return ReplyNotConfigured, nil
}
