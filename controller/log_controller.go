// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-weblogic-audit-service/exception"
	"github.com/Netcracker/qubership-weblogic-audit-service/report"
	"github.com/Netcracker/qubership-weblogic-audit-service/service"
	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	log "github.com/sirupsen/logrus"
)

type LogAnalysisController interface {
	ProcessLogFile(w http.ResponseWriter, r *http.Request)
}

func NewLogAnalysisController(logAnalysisService service.LogAnalysisService, renderer report.Renderer, systemInfoService service.SystemInfoService) LogAnalysisController {
	return &logAnalysisControllerImpl{
		logAnalysisService: logAnalysisService,
		renderer:           renderer,
		systemInfoService:  systemInfoService,
	}
}

type logAnalysisControllerImpl struct {
	logAnalysisService service.LogAnalysisService
	renderer           report.Renderer
	systemInfoService  service.SystemInfoService
}

func (c *logAnalysisControllerImpl) ProcessLogFile(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(0)
	if r.MultipartForm == nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
		})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Debugf("failed to remove multipart form temp data: %s", err.Error())
		}
	}()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.NoFilesUploaded,
			Message: exception.NoFilesUploadedMsg,
			Params:  map[string]interface{}{"param": "files"},
		})
		return
	}

	opts, customError := c.readOptions(r)
	if customError != nil {
		RespondWithCustomError(w, customError)
		return
	}

	files, cleanup, err := saveMultipartFiles(fileHeaders)
	defer cleanup()
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.IncorrectMultipartFile,
			Message: exception.IncorrectMultipartFileMsg,
			Debug:   err.Error(),
		})
		return
	}

	reports, err := c.logAnalysisService.ProcessLogFiles(r.Context(), files, opts)
	if err != nil {
		respondWithError(w, "Failed to analyze log files", err)
		return
	}

	pdfData, err := c.renderer.RenderLogReport(reports)
	if err != nil {
		respondWithError(w, "Failed to render log report", &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.ReportRenderingFailed,
			Message: exception.ReportRenderingFailedMsg,
			Debug:   err.Error(),
		})
		return
	}

	respondWithPdf(w, "report.pdf", pdfData)
}

func (c *logAnalysisControllerImpl) readOptions(r *http.Request) (view.ProcessLogOptions, *exception.CustomError) {
	opts := view.ProcessLogOptions{Language: r.FormValue("language")}
	if opts.Language == "" {
		opts.Language = c.systemInfoService.GetDefaultLanguage()
	}

	topK, customError := getOptionalPositiveIntFormValue(r, "top_k")
	if customError != nil {
		return opts, customError
	}
	opts.TopK = topK

	minCount, customError := getOptionalPositiveIntFormValue(r, "min_count")
	if customError != nil {
		return opts, customError
	}
	opts.MinCount = minCount

	return opts, nil
}
