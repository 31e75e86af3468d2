package intent

import (
	"fmt"
	"strings"

	"voxnav/internal/nav"
)

const submissionSystemPrompt = `You are a specialized assistant that detects form submission intent. Respond with ONLY "SUBMIT" or "NONE".`

func buildSubmissionPrompt(utterance string) string {
	return fmt.Sprintf(`Analyze if the following text indicates an intent to submit a contact form.

User text: %q

Common submission phrases include:
- "submit the form"
- "send the message"
- "submit my contact information"
- "send my details"
- "submit"
- "send"
- "go ahead and submit"
- "submit now"

Respond with ONLY "SUBMIT" if the text indicates form submission intent, or "NONE" if it does not.`, utterance)
}

const formExtractionSystemPrompt = `You are a specialized assistant that extracts ALL possible contact form field data from user speech. Extract any name, email, subject, and message content. Be very careful to correctly separate different field data. Pay special attention to multiple fields mentioned in one sentence and ensure you don't include field identifiers in the values.`

func buildFormExtractionPrompt(utterance string) string {
	return fmt.Sprintf(`Extract ALL contact form information from the following text. The form has these fields: name, email, subject, message.

User text: %q

Extract any information that could fill a contact form, even if implied. Return ALL fields that can be extracted.
You must be very precise in separating different fields from the text. Specifically:

1. For name fields, extract only the actual name, not instructions like "my name is" or "name as"
2. For email fields, extract the complete email address, even if it's written in speech format
3. For subject, map to one of: "general", "support", "sales", "feedback"
4. For message, capture actual message content

Pay special attention to:
- When multiple fields are mentioned in one sentence (e.g., "fill name as John email as john@example.com")
- When fields are separated by "as", "with", "to", or similar words
- When fields are mentioned in different orders

Respond ONLY with a JSON object in this exact format:
{
  "name": "extracted name or null if not mentioned",
  "email": "extracted email or null if not mentioned",
  "subject": "extracted subject or null if not mentioned",
  "message": "extracted message or null if not mentioned",
  "submit": true/false (whether user wants to submit the form)
}

If there is absolutely no form-related content, respond with "NONE".`, utterance)
}

const listMutationSystemPrompt = `You are a helpful assistant that identifies product filtering and sorting commands. Respond ONLY with the JSON format specified or "NONE".`

func buildListMutationPrompt(utterance string) string {
	return fmt.Sprintf(`I have a products page with filtering, sorting, and search functionality.
The user said: %q

Is the user trying to:
1. Filter products by a category
2. Sort products by price (low to high or high to low)
3. Search for specific products
4. Clear filters
5. None of these (not a product-related command)

If it's a product command, respond in this exact JSON format:
{
  "action": "filter|sort|search|clear",
  "field": "category|price|text" (omit for clear),
  "value": "the value to filter/sort/search by" (omit for clear)
}

If it's not a product command, just respond with: NONE

Examples:
1. "Show me Enterprise products" -> {"action":"filter","field":"category","value":"Enterprise"}
2. "Sort products by price from low to high" -> {"action":"sort","field":"price","value":"low-to-high"}
3. "Search for voice products" -> {"action":"search","field":"text","value":"voice"}
4. "Clear all filters" -> {"action":"clear"}`, utterance)
}

const navigationSystemPrompt = `You are a helpful assistant that identifies which page a user wants to navigate to based on their speech. Respond ONLY with the page ID, nothing else.`

func buildNavigationPrompt(utterance string, dests []nav.Destination) string {
	var list strings.Builder
	ids := make([]string, 0, len(dests))
	for _, d := range dests {
		fmt.Fprintf(&list, "- %s: %s (Keywords: %s)\n", d.ID, d.Name, strings.Join(d.Keywords, ", "))
		ids = append(ids, d.ID)
	}

	return fmt.Sprintf(`I have a website with the following pages:
%s
The user said: %q

Based on what the user said, which page should I navigate to?
Respond with just the ID of the most relevant page. Only respond with one of these exact IDs: %s. If there is no relevant page, respond with "NONE".`,
		list.String(), utterance, strings.Join(ids, ", "))
}
