package openai

import (
	"fmt"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "discussion_segments": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "bill_name": {
            "type": "string"
          },
          "main_category": {
            "type": "string"
          },
          "sub_categories": {
            "type": "array",
            "items": {"type": "string"}
          },
          "keywords": {
            "type": "array",
            "items": {"type": "string"}
          },
          "statements": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "speaker_name": {"type": "string"},
                "text": {"type": "string"},
                "sentiment_score": {"type": "number", "minimum": -1, "maximum": 1},
                "reason": {"type": "string"},
                "policy_tags": {"type": "array", "items": {"type": "string"}}
              },
              "required": ["speaker_name", "text"],
              "additionalProperties": false
            }
          }
        },
        "required": ["bill_name", "statements"],
        "additionalProperties": false
      }
    }
  },
  "required": ["discussion_segments"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You are given the cleaned transcript of one legislative session. Split it into
discussion segments (one per bill or distinct topic) and list every attributed
statement inside each segment. Return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- bill_name is the bill title or topic exactly as discussed; do not invent bills that are not in the text.
- Every statement's text must be the speaker's verbatim words from the transcript. Never paraphrase.
- speaker_name is the display name as printed, without honorifics or role prefixes.
- sentiment_score expresses the speaker's stance toward the segment's bill: -1 (strong opposition) to 1 (strong support). Omit it for procedural or neutral remarks.
- reason is one short sentence justifying the score; omit it when there is no score.
- Attribute interjections to the interjecting speaker, not the one interrupted.
- Skip purely procedural chair announcements (roll calls, recess notices).
- If the transcript contains no attributable statements, return "discussion_segments": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input:
"CHAIR: We now take up the Water Resources Act.
MEMBER VALE: This bill secures our water supply for a generation. I fully support it.
MEMBER BROOK: The funding section is vague and I cannot back it as written."
Output:
{
  "discussion_segments": [
    {
      "bill_name": "Water Resources Act",
      "main_category": "environment",
      "sub_categories": ["water"],
      "keywords": ["water supply", "funding"],
      "statements": [
        {"speaker_name": "VALE", "text": "This bill secures our water supply for a generation. I fully support it.", "sentiment_score": 0.9, "reason": "explicit full support"},
        {"speaker_name": "BROOK", "text": "The funding section is vague and I cannot back it as written.", "sentiment_score": -0.6, "reason": "objects to funding section"}
      ]
    }
  ]
}`

// buildSystemPrompt creates the system prompt with the schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema)
}
