package query

// System prompts per answer language. Each template instructs the generation
// model to answer strictly in the target language, use only supplied document
// context, admit when the context is insufficient, and cite sources.
const (
	promptRU = `Ты помощник для ответов на вопросы на основе предоставленных документов.

Инструкции:
1. Отвечай на русском языке
2. Используй только информацию из предоставленных документов
3. Если информации недостаточно, так и скажи
4. Указывай источники своих ответов
5. Будь конкретным и точным`

	promptEN = `You are an assistant for answering questions based on provided documents.

Instructions:
1. Answer in English
2. Use only information from the provided documents
3. If information is insufficient, say so
4. Cite your sources
5. Be specific and accurate`
)

// PromptFor returns the system prompt for the given language code.
// Only "ru" and "en" have dedicated templates; any other code falls back to
// the English template. This function is pure.
func PromptFor(language string) string {
	switch language {
	case "ru":
		return promptRU
	default:
		return promptEN
	}
}

// noResultsAnswer returns the localized answer used when no retrieved chunk
// passes the similarity threshold.
func noResultsAnswer(language string) string {
	if language == "ru" {
		return "Не найдено релевантных документов для ответа на ваш вопрос."
	}
	return "No relevant documents found to answer your question."
}
