package client

import (
	"github.com/tmc/langchaingo/prompts"
)

var suggestPromptTemplate = prompts.PromptTemplate{
	Template: `You are a WebLogic expert. Summarize the following log message so it is clear and concise,
explaining the error like an expert would, then propose a short actionable fix.
Answer in the language '{{.language}}'.
Log message: {{.message}}
Respond as JSON with the fields:
{
  "reformulated": "short explanatory sentence",
  "solution": "concise fix"
}`,
	InputVariables: []string{"language", "message"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

var imageAuditPromptTemplate = prompts.PromptTemplate{
	Template: `You are a WebLogic administration expert. Analyze this configuration screenshot.
Give a clear one-line title starting with "Titre: ".
If the screenshot shows a table, use the following structure:
 - Write "Labels: " with the column names separated by "|".
 - Then "Lignes: " and list every record line by line with values separated by "|". Copy values exactly, including negative signs on numbers.
If the screenshot does NOT show a table, list the parameters as "parameter name : exact value", one pair per line, without adding explanations, recommendations or extra text inside the values. If a value is empty, write "Vide". Copy numbers exactly as shown, keeping negative signs.
Then add a line "Conclusion: " with a clear summary (without recommendation).
Finally add a line "Recommendation: " with an expert recommendation (security, performance or configuration).
Answer in the language '{{.language}}' and make sure negative signs are preserved exactly as in the screenshot.`,
	InputVariables: []string{"language"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

func renderSuggestPrompt(message string, language string) (string, error) {
	return suggestPromptTemplate.Format(map[string]any{
		"language": language,
		"message":  message,
	})
}

func renderImageAuditPrompt(language string) (string, error) {
	return imageAuditPromptTemplate.Format(map[string]any{
		"language": language,
	})
}
