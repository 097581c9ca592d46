package view

// Occurrence is a single matched log line together with its surrounding
// context window.
type Occurrence struct {
	OriginalMessage string `json:"originalMessage"`
	LineNumber      int    `json:"lineNumber"`
	Context         string `json:"context"`
}

// ErrorGroup collects all occurrences of one normalized error signature
// within a single file. RepresentativeMessage always keeps the raw text of
// the first occurrence; the LLM reformulation is stored separately in
// Explanation so the audit trail is preserved.
type ErrorGroup struct {
	Signature             string       `json:"type"`
	RepresentativeMessage string       `json:"representative_message"`
	Explanation           string       `json:"explanation,omitempty"`
	Solution              string       `json:"solution,omitempty"`
	Severity              string       `json:"severity"`
	Count                 int          `json:"count"`
	Occurrences           []Occurrence `json:"examples"`
}

type FileReport struct {
	Filename string       `json:"filename"`
	Groups   []ErrorGroup `json:"groups"`
}

const DefaultSeverity = "MEDIUM"

const DefaultLanguage = "fr"

// UploadedFile points at a request-scoped temp copy of one uploaded file.
type UploadedFile struct {
	Filename string
	Path     string
}

// ProcessLogOptions carries the optional query parameters of a log analysis
// request. Zero values mean "absent" for TopK and MinCount; both are
// validated as positive at the controller boundary.
type ProcessLogOptions struct {
	Language string
	TopK     int
	MinCount int
}
