package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Netcracker/qubership-weblogic-audit-service/exception"
	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuditCompletionLabeledTable(t *testing.T) {
	content := `Titre: Configuration des sources de données JDBC
Labels: Nom | Valeur | Etat
Lignes: ds-orders | 10 | OK
ds-billing | -5 | KO
Conclusion: deux sources de données sont configurées
Recommendation: corriger la taille de pool négative`

	analysis := parseAuditCompletion(content, "capture1.png")
	assert.Equal(t, "capture1.png", analysis.ImageName)
	assert.Equal(t, "Configuration des sources de données JDBC", analysis.Title)
	assert.Equal(t, []string{"Nom", "Valeur", "Etat"}, analysis.Labels)
	require.Len(t, analysis.Values, 2)
	assert.Equal(t, []string{"ds-orders", "10", "OK"}, analysis.Values[0])
	assert.Equal(t, []string{"ds-billing", "-5", "KO"}, analysis.Values[1])
	assert.Equal(t, "deux sources de données sont configurées", analysis.Conclusion)
	assert.Equal(t, "corriger la taille de pool négative", analysis.Recommendation)
}

func TestParseAuditCompletionRowsWithWrongArityAreSkipped(t *testing.T) {
	content := `Labels: a | b
Lignes: 1 | 2
3 | 4 | 5
Conclusion: fin`

	analysis := parseAuditCompletion(content, "x.png")
	require.Len(t, analysis.Values, 1)
	assert.Equal(t, []string{"1", "2"}, analysis.Values[0])
}

func TestParseAuditCompletionJSONBlock(t *testing.T) {
	content := "```json\n" + `{
  "title": "Serveurs managés",
  "labels": ["Nom", "Etat"],
  "values": [["ms1", "RUNNING"], ["ms2", "SHUTDOWN"]],
  "conclusion": "un serveur est arrêté",
  "recommendation": "redémarrer ms2"
}` + "\n```"

	analysis := parseAuditCompletion(content, "servers.png")
	assert.Equal(t, "Serveurs managés", analysis.Title)
	assert.Equal(t, []string{"Nom", "Etat"}, analysis.Labels)
	require.Len(t, analysis.Values, 2)
	assert.Equal(t, "un serveur est arrêté", analysis.Conclusion)
	assert.Equal(t, "redémarrer ms2", analysis.Recommendation)
}

func TestParseAuditCompletionKeyValueFallback(t *testing.T) {
	content := `Titre: Ecran de configuration SSL
Nom du serveur : AdminServer
Port d'écoute : 7001
Certificat :
Conclusion: SSL n'est pas configuré
Recommendation: installer un certificat`

	analysis := parseAuditCompletion(content, "ssl.png")
	assert.Equal(t, []string{"Paramètre", "Valeur"}, analysis.Labels)
	require.Len(t, analysis.Values, 3)
	assert.Equal(t, []string{"Nom du serveur", "AdminServer"}, analysis.Values[0])
	assert.Equal(t, []string{"Port d'écoute", "7001"}, analysis.Values[1])
	assert.Equal(t, []string{"Certificat", "Vide"}, analysis.Values[2])
	assert.Equal(t, "SSL n'est pas configuré", analysis.Conclusion)
}

// minimal PNG signature so content sniffing reports image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func writeTempImage(t *testing.T, name string) view.UploadedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))
	return view.UploadedFile{Filename: name, Path: path}
}

func TestAnalyzeImages(t *testing.T) {
	svc := NewImageAnalysisService(stubLLMClient{description: "Titre: Console\nConclusion: rien à signaler"})

	image := writeTempImage(t, "console.png")
	analyses, err := svc.AnalyzeImages(context.Background(), []view.UploadedFile{image}, "fr")
	require.NoError(t, err)
	require.Len(t, analyses, 1)

	assert.Equal(t, "console.png", analyses[0].ImageName)
	assert.Equal(t, "image/png", analyses[0].MimeType)
	assert.Equal(t, pngHeader, analyses[0].ImageData)
	assert.Equal(t, "Console", analyses[0].Title)
	assert.Equal(t, "rien à signaler", analyses[0].Conclusion)
}

func TestAnalyzeImagesLLMFailureIsFatal(t *testing.T) {
	svc := NewImageAnalysisService(stubLLMClient{err: errors.New("quota exceeded")})

	image := writeTempImage(t, "console.png")
	_, err := svc.AnalyzeImages(context.Background(), []view.UploadedFile{image}, "fr")
	require.Error(t, err)

	customError, ok := err.(*exception.CustomError)
	require.True(t, ok)
	assert.Equal(t, exception.ImageAnalysisFailed, customError.Code)
}

func TestAnalyzeImagesDisabledLLMIsFatal(t *testing.T) {
	svc := NewImageAnalysisService(nil)

	image := writeTempImage(t, "console.png")
	_, err := svc.AnalyzeImages(context.Background(), []view.UploadedFile{image}, "fr")
	require.Error(t, err)
}
