package controller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Netcracker/qubership-weblogic-audit-service/exception"
	"github.com/Netcracker/qubership-weblogic-audit-service/report"
	"github.com/Netcracker/qubership-weblogic-audit-service/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogController(t *testing.T) LogAnalysisController {
	t.Helper()
	systemInfoService, err := service.NewSystemInfoService()
	require.NoError(t, err)
	// nil LLM client exercises the fallback enrichment path
	logAnalysisService := service.NewLogAnalysisService(service.NewSuggestionService(nil))
	return NewLogAnalysisController(logAnalysisService, report.NewRenderer(), systemInfoService)
}

type multipartRequest struct {
	body        bytes.Buffer
	writer      *multipart.Writer
	finished    bool
	contentType string
}

func newMultipartRequest() *multipartRequest {
	m := &multipartRequest{}
	m.writer = multipart.NewWriter(&m.body)
	return m
}

func (m *multipartRequest) addFile(t *testing.T, field, filename, content string) *multipartRequest {
	t.Helper()
	part, err := m.writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	return m
}

func (m *multipartRequest) addField(t *testing.T, name, value string) *multipartRequest {
	t.Helper()
	require.NoError(t, m.writer.WriteField(name, value))
	return m
}

func (m *multipartRequest) build(t *testing.T, url string) *http.Request {
	t.Helper()
	if !m.finished {
		require.NoError(t, m.writer.Close())
		m.contentType = m.writer.FormDataContentType()
		m.finished = true
	}
	r := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(m.body.Bytes()))
	r.Header.Set("Content-Type", m.contentType)
	return r
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	code, _ := payload["code"].(string)
	return code
}

func TestProcessLogFile(t *testing.T) {
	controller := newLogController(t)

	r := newMultipartRequest().
		addFile(t, "files", "server.log",
			"INFO start\n"+
				"2024-01-02 10:00:00 ERROR Connection refused at 10.0.0.5\n"+
				"2024-01-02 10:05:33 ERROR Connection refused at 10.0.0.9\n").
		build(t, "/api/v1/log/processLogFile")
	w := httptest.NewRecorder()

	controller.ProcessLogFile(w, r)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestProcessLogFileMultipleFilesAndOptions(t *testing.T) {
	controller := newLogController(t)

	r := newMultipartRequest().
		addFile(t, "files", "a.log", "ERROR alpha\nERROR alpha\nERROR beta\n").
		addFile(t, "files", "b.log", "INFO quiet\n").
		addField(t, "language", "en").
		addField(t, "top_k", "1").
		addField(t, "min_count", "2").
		build(t, "/api/v1/log/processLogFile")
	w := httptest.NewRecorder()

	controller.ProcessLogFile(w, r)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestProcessLogFileNotMultipart(t *testing.T) {
	controller := newLogController(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/log/processLogFile", strings.NewReader("{}"))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	controller.ProcessLogFile(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, exception.BadRequestBody, decodeErrorCode(t, w))
}

func TestProcessLogFileWithoutFiles(t *testing.T) {
	controller := newLogController(t)

	r := newMultipartRequest().
		addField(t, "language", "fr").
		build(t, "/api/v1/log/processLogFile")
	w := httptest.NewRecorder()

	controller.ProcessLogFile(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, exception.NoFilesUploaded, decodeErrorCode(t, w))
}

func TestProcessLogFileRejectsInvalidTopK(t *testing.T) {
	controller := newLogController(t)

	for _, value := range []string{"0", "-3", "many"} {
		r := newMultipartRequest().
			addFile(t, "files", "server.log", "ERROR boom\n").
			addField(t, "top_k", value).
			build(t, "/api/v1/log/processLogFile")
		w := httptest.NewRecorder()

		controller.ProcessLogFile(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code, "top_k=%s", value)
		assert.Equal(t, exception.InvalidParameterValue, decodeErrorCode(t, w))
	}
}
