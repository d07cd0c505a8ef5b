package constant

// ExtractContactsPromptV1 is filled with the user's text via fmt.Sprintf.
const ExtractContactsPromptV1 = `Your role is to extract contacts from text and prioritize the user's notes.

Strict rules to follow:
1.  Identify **ONLY** the people and organizations whose names are highlighted (e.g., **Person's Name**).
2.  For each highlighted entity, **capture ALL surrounding un-highlighted text** that relates to that person. This text constitutes the user's personal notes and is the absolute priority.
3.  Use web search **as a supplement** to find a **VERY CONCISE** professional summary (a single sentence) and **ONE or TWO key points** (current role, company). The search is secondary to the user's notes.
4.  The source text provided by the user is: """%s"""

Output format:
Return the result **ONLY** as a valid JSON array. Each object must correspond to a highlighted entity and have EXACTLY the following structure, filling the "notes" field with the user's annotations:
{ "name": "string", "summary": "string", "key_points": ["string"], "notes": "string" }

Do not return anything other than this JSON array. No explanatory text, no code fences. Just the raw JSON.`

const (
	ExtractionMissingName    = "Missing Name"
	ExtractionMissingSummary = "No summary found."
	ExtractionTemperature    = 0.1
)
