package models

const (
	// NoContextSentinel is rendered whenever retrieval produces nothing usable,
	// so the generation model is never prompted with an empty context.
	NoContextSentinel = "no relevant data found"

	// RelevanceThreshold is the minimum top similarity score below which a
	// document search is treated as "no answer derivable from context".
	RelevanceThreshold = 0.1

	// RefinementThreshold gates the secondary fetch-plan request: rule-tier
	// classifications at or above it map directly to a fetch operation.
	RefinementThreshold = 0.7
)

var (
	AnswerPromptTemplate = `Use the following context to answer the question. If the context does not contain the answer, say so plainly.

Context:
%s

Question: %s

Answer:`

	ClassifyPromptTemplate = `Classify the question about a sports league dataset.
Known teams: %s
Known divisions: %s

Question: %s

Respond with a single JSON object, nothing else:
{"query_type": one of ["relation","temporal","categorical","count","listing","date_range","general"],
 "entities": subset of ["team","player","match"],
 "parameters": {"name": "...", "division": "...", "date": "YYYY-MM-DD", "from": "YYYY-MM-DD", "to": "YYYY-MM-DD"},
 "confidence": number between 0 and 1}
Omit parameters you cannot fill.`

	FetchPlanPromptTemplate = `Choose exactly one data fetch operation for the question below.
Operations: %s

Question: %s

Respond with a single JSON object, nothing else:
{"operation": "...", "arguments": {"name": "...", "division": "...", "date": "YYYY-MM-DD", "from": "YYYY-MM-DD", "to": "YYYY-MM-DD"}}
Omit arguments the operation does not need.`
)
