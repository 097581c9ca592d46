package view

// ImageAnalysis is the structured result extracted from one configuration
// screenshot. Labels/Values form a table when the screenshot contained one,
// otherwise the parser falls back to parameter/value pairs.
type ImageAnalysis struct {
	ImageName      string     `json:"imageName"`
	MimeType       string     `json:"-"`
	ImageData      []byte     `json:"-"`
	Title          string     `json:"title,omitempty"`
	Labels         []string   `json:"labels,omitempty"`
	Values         [][]string `json:"values,omitempty"`
	Conclusion     string     `json:"conclusion,omitempty"`
	Recommendation string     `json:"recommendation,omitempty"`
}
