package extract

import "fmt"

// Prompt templates are fixed and parameterized only by the context text.
// The action-item grammar (one item per line, pipe-delimited fields, NONE
// sentinel) is deliberately rigid so the parser can reject anything else.

const summaryTemplate = `You are an expert meeting assistant specialized in summarizing multilingual transcripts. Analyze the transcript below and write a concise summary of the main discussion points, key decisions, and overall outcome. Focus on clarity and accuracy. Respond with the summary text only, no headings or preamble.

---
Transcript:
%s
---`

const actionItemsTemplate = `You are an expert meeting assistant. Extract every specific task or action assigned during the meeting below.

Respond with one action item per line in exactly this format:
description | owner | due

Use "-" for the owner or due field when the transcript does not name one. Do not number the lines or add any other text. If no action items were assigned, respond with the single word NONE.

---
Transcript:
%s
---`

const actionItemsRetryTemplate = `Your previous reply did not follow the required format. Extract the action items from the meeting transcript below again.

The format is strict: one action item per line, three fields separated by " | ":
description | owner | due

Examples:
Send the revised budget to finance | Speaker B | Friday
Book the venue for the offsite | - | -

Use "-" for a missing owner or due date. No numbering, no bullets, no headings, no commentary. If the meeting assigned no tasks at all, reply with exactly: NONE

---
Transcript:
%s
---`

const summaryRetryTemplate = `Your previous reply was empty. Summarize the meeting transcript below in a short paragraph of plain prose. Respond with the summary text only.

---
Transcript:
%s
---`

func prompt(kind Kind, window string) string {
	if kind == KindActionItems {
		return fmt.Sprintf(actionItemsTemplate, window)
	}
	return fmt.Sprintf(summaryTemplate, window)
}

func retryPrompt(kind Kind, window string) string {
	if kind == KindActionItems {
		return fmt.Sprintf(actionItemsRetryTemplate, window)
	}
	return fmt.Sprintf(summaryRetryTemplate, window)
}
