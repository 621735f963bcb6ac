package app

import (
	"fmt"
	"strings"
)

// RefusalMessage is the fixed reply the model is instructed to give for
// queries unrelated to the retrieved context. The instruction is
// advisory; the pipeline does not validate that the model obeyed it.
const RefusalMessage = "I'm sorry, I can't help with that."

const promptTemplate = `You are a helpful customer support assistant.

Please respond to the user's query based on the context provided and refer chat history.
Use engaging, friendly, and helpful tone.
Highlight key points in bold.
Use bullet points for lists and start each bullet point with an asterisk (*) and ensure each appears on a new line.
If the user's query is related to the context, please respond with the most relevant information from the context.
If the user's query is not related to the context, please respond with "%s"
Use consistent markdown formatting for all tables, links/deeplinks, and code blocks.

Here is the chat history:
%s

Here is the context:
%s

Here is the user's query:
%s
`

// buildPrompt renders the fixed template with the formatted history
// lines, the retrieved chunk texts as-is, and the raw user query.
func buildPrompt(historyLines, contextChunks []string, query string) string {
	return fmt.Sprintf(
		promptTemplate,
		RefusalMessage,
		strings.Join(historyLines, "\n"),
		strings.Join(contextChunks, "\n\n"),
		query,
	)
}
