package service

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/Netcracker/qubership-weblogic-audit-service/client"
	"github.com/Netcracker/qubership-weblogic-audit-service/exception"
	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	log "github.com/sirupsen/logrus"
)

type ImageAnalysisService interface {
	AnalyzeImages(ctx context.Context, images []view.UploadedFile, language string) ([]view.ImageAnalysis, error)
}

func NewImageAnalysisService(llmClient client.LLMClient) ImageAnalysisService {
	return &imageAnalysisServiceImpl{llmClient: llmClient}
}

type imageAnalysisServiceImpl struct {
	llmClient client.LLMClient
}

// AnalyzeImages sends every screenshot to the multimodal LLM and parses the
// completion into a structured analysis. Unlike log enrichment there is no
// degraded mode here: without a working LLM the screenshot report has no
// content at all, so failures are fatal for the request.
func (s imageAnalysisServiceImpl) AnalyzeImages(ctx context.Context, images []view.UploadedFile, language string) ([]view.ImageAnalysis, error) {
	if language == "" {
		language = view.DefaultLanguage
	}

	results := make([]view.ImageAnalysis, 0, len(images))
	for _, image := range images {
		data, err := os.ReadFile(image.Path)
		if err != nil {
			return nil, &exception.CustomError{
				Status:  http.StatusInternalServerError,
				Code:    exception.ImageAnalysisFailed,
				Message: exception.ImageAnalysisFailedMsg,
				Params:  map[string]interface{}{"filename": image.Filename},
				Debug:   err.Error(),
			}
		}
		mimeType := http.DetectContentType(data)

		if s.llmClient == nil {
			return nil, &exception.CustomError{
				Status:  http.StatusInternalServerError,
				Code:    exception.ImageAnalysisFailed,
				Message: exception.ImageAnalysisFailedMsg,
				Params:  map[string]interface{}{"filename": image.Filename},
				Debug:   "LLM enrichment is disabled, check the LLM_API_KEY configuration",
			}
		}

		content, err := s.llmClient.DescribeImage(ctx, data, mimeType, language)
		if err != nil {
			return nil, &exception.CustomError{
				Status:  http.StatusInternalServerError,
				Code:    exception.ImageAnalysisFailed,
				Message: exception.ImageAnalysisFailedMsg,
				Params:  map[string]interface{}{"filename": image.Filename},
				Debug:   err.Error(),
			}
		}
		log.Tracef("image %s completion: %s", image.Filename, content)

		analysis := parseAuditCompletion(content, image.Filename)
		analysis.MimeType = mimeType
		analysis.ImageData = data
		results = append(results, analysis)
	}
	return results, nil
}

var (
	codeFenceRegexp      = regexp.MustCompile("```(?:[a-zA-Z]*\n)?")
	bulletRegexp         = regexp.MustCompile(`(?m)^\s*[*•]\s*`)
	titleLineRegexp      = regexp.MustCompile(`(?im)^\s*(?:Titre|Title)\s*:\s*(.+)$`)
	labelsLineRegexp     = regexp.MustCompile(`(?im)^\s*(?:Labels?|Étiquettes?)\s*:\s*(.+)$`)
	rowsHeaderRegexp     = regexp.MustCompile(`(?im)^\s*(?:Lignes?|Rows?)\s*:\s*(.*)$`)
	conclusionRegexp     = regexp.MustCompile(`(?im)^\s*Conclusion\s*:`)
	recommendationRegexp = regexp.MustCompile(`(?im)^\s*Recommendation\s*:`)
	keyValueLineRegexp   = regexp.MustCompile(`^\s*([^:]+?)\s*:\s*(.*)$`)
	labelSplitRegexp     = regexp.MustCompile(`[|\t;,]`)
)

func cleanCompletionText(s string) string {
	if s == "" {
		return ""
	}
	s = codeFenceRegexp.ReplaceAllString(s, "")
	s = bulletRegexp.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// parseAuditCompletion extracts title, table (or parameter/value pairs),
// conclusion and recommendation from the LLM completion. A JSON object in
// the completion wins; otherwise the labeled-text grammar is applied.
func parseAuditCompletion(content string, imageName string) view.ImageAnalysis {
	content = cleanCompletionText(content)
	analysis := view.ImageAnalysis{ImageName: imageName}

	if parsed, ok := parseJSONBlock(content); ok {
		parsed.ImageName = imageName
		return parsed
	}

	if m := titleLineRegexp.FindStringSubmatch(content); m != nil {
		analysis.Title = strings.TrimSpace(m[1])
	}
	analysis.Conclusion = extractSection(content, conclusionRegexp, recommendationRegexp)
	analysis.Recommendation = extractSection(content, recommendationRegexp, nil)

	analysis.Labels, analysis.Values = parseTable(content)
	if len(analysis.Values) == 0 || len(analysis.Labels) == 0 {
		analysis.Labels, analysis.Values = parseKeyValuePairs(content)
	}
	return analysis
}

// extractSection returns the text between a section marker and the next
// marker (or the end of the completion).
func extractSection(content string, marker *regexp.Regexp, next *regexp.Regexp) string {
	loc := marker.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	section := content[loc[1]:]
	if next != nil {
		if nextLoc := next.FindStringIndex(section); nextLoc != nil {
			section = section[:nextLoc[0]]
		}
	}
	return strings.TrimSpace(section)
}

func parseTable(content string) ([]string, [][]string) {
	m := labelsLineRegexp.FindStringSubmatch(content)
	if m == nil {
		return nil, nil
	}
	var labels []string
	for _, label := range labelSplitRegexp.Split(m[1], -1) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}

	rowsLoc := rowsHeaderRegexp.FindStringSubmatchIndex(content)
	if rowsLoc == nil {
		return labels, nil
	}
	firstRow := strings.TrimSpace(content[rowsLoc[2]:rowsLoc[3]])
	block := content[rowsLoc[1]:]
	if end := conclusionRegexp.FindStringIndex(block); end != nil {
		block = block[:end[0]]
	} else if end := recommendationRegexp.FindStringIndex(block); end != nil {
		block = block[:end[0]]
	}

	rows := make([]string, 0)
	if firstRow != "" {
		rows = append(rows, firstRow)
	}
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			rows = append(rows, trimmed)
		}
	}

	var values [][]string
	for _, row := range rows {
		cells := splitRow(row)
		if cells == nil {
			continue
		}
		if len(labels) > 0 && len(cells) != len(labels) {
			continue
		}
		if containsSectionWord(cells) {
			continue
		}
		values = append(values, cells)
	}
	return labels, values
}

func splitRow(row string) []string {
	var sep string
	switch {
	case strings.Contains(row, "|"):
		sep = "|"
	case strings.Contains(row, ";"):
		sep = ";"
	case strings.Contains(row, ","):
		sep = ","
	default:
		return nil
	}
	parts := strings.Split(row, sep)
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func containsSectionWord(cells []string) bool {
	for _, c := range cells {
		lower := strings.ToLower(strings.TrimSpace(c))
		if lower == "conclusion" || lower == "recommendation" {
			return true
		}
	}
	return false
}

var reservedKeys = map[string]bool{
	"titre": true, "title": true, "conclusion": true, "recommendation": true,
	"labels": true, "label": true, "étiquettes": true, "lignes": true, "ligne": true, "rows": true, "row": true,
}

// parseKeyValuePairs is the fallback when no valid table structure was
// found: every "name : value" line becomes a parameter/value row.
func parseKeyValuePairs(content string) ([]string, [][]string) {
	var values [][]string
	for _, line := range strings.Split(content, "\n") {
		m := keyValueLineRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if reservedKeys[strings.ToLower(key)] {
			continue
		}
		if value == "" {
			value = "Vide"
		}
		values = append(values, []string{key, value})
	}
	if len(values) == 0 {
		return nil, nil
	}
	return []string{"Paramètre", "Valeur"}, values
}

// unmarshalled JSON blocks may use English or French keys.
func parseJSONBlock(content string) (view.ImageAnalysis, bool) {
	block := jsonObjectRegexp.FindString(content)
	if block == "" {
		return view.ImageAnalysis{}, false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(block), &obj); err != nil {
		return view.ImageAnalysis{}, false
	}

	analysis := view.ImageAnalysis{
		Title:          pickString(obj, "title", "Titre", "Title"),
		Labels:         pickStringSlice(obj, "labels", "etiquettes", "Labels"),
		Conclusion:     pickString(obj, "conclusion", "Conclusion"),
		Recommendation: pickString(obj, "recommendation", "Recommendation"),
	}
	for _, row := range pickRows(obj, "values", "Valeurs") {
		if !containsSectionWord(row) {
			analysis.Values = append(analysis.Values, row)
		}
	}
	return analysis, true
}

var jsonObjectRegexp = regexp.MustCompile(`\{[\s\S]*\}`)

func pickString(obj map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func pickStringSlice(obj map[string]interface{}, keys ...string) []string {
	for _, k := range keys {
		raw, ok := obj[k].([]interface{})
		if !ok {
			continue
		}
		var out []string
		for _, item := range raw {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func pickRows(obj map[string]interface{}, keys ...string) [][]string {
	for _, k := range keys {
		raw, ok := obj[k].([]interface{})
		if !ok {
			continue
		}
		var rows [][]string
		for _, item := range raw {
			cells, ok := item.([]interface{})
			if !ok {
				continue
			}
			row := make([]string, 0, len(cells))
			for _, c := range cells {
				if s, ok := c.(string); ok {
					row = append(row, s)
				}
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
		}
		if len(rows) > 0 {
			return rows
		}
	}
	return nil
}
