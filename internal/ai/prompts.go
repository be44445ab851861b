package ai

import "fmt"

func KeywordsPrompt(content string) string {
	return fmt.Sprintf("Extract 5-10 relevant keywords from the following text. Return only the keywords separated by commas, no other text or explanations:\n%s", content)
}

func SummaryPrompt(content string) string {
	return fmt.Sprintf("Generate a concise summary of the following text. Return only the summary, no other text or explanations:\n%s", content)
}

func TitlePrompt(content string) string {
	return fmt.Sprintf("Generate a title for the following text. Return only the title, no other text or explanations:\n%s", content)
}

func ImprovePrompt(content string) string {
	return fmt.Sprintf("Improve the following text. Return only the improved text with corrected grammar, no other text or explanations, and the meaning must remain the same as the original:\n%s", content)
}

func TopicNotesPrompt(topic string) string {
	return fmt.Sprintf("Generate notes for the given topic. The notes should be easy to understand:\n%s", topic)
}

// NoteChatPrompt assembles the full prompt for a note-scoped chat turn from
// the note context block, the rendered recent history and the new question.
func NoteChatPrompt(noteContext, conversationContext, userMessage string) string {
	return fmt.Sprintf(`You are an intelligent note assistant. You have access to a specific note and can answer questions about it.

NOTE CONTEXT:
%s

PREVIOUS CONVERSATION:
%s

USER QUESTION: %s

Instructions:
- Answer questions based on the note content
- If the question is not related to the note, politely redirect to note-related topics
- Be helpful and provide insights about the note
- You can suggest improvements, ask clarifying questions, or provide summaries
- Keep responses concise but informative

Response:`, noteContext, conversationContext, userMessage)
}
