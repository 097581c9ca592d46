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

type CombinedReportController interface {
	GenerateCombinedPDF(w http.ResponseWriter, r *http.Request)
}

func NewCombinedReportController(imageAnalysisService service.ImageAnalysisService, logAnalysisService service.LogAnalysisService,
	renderer report.Renderer, systemInfoService service.SystemInfoService) CombinedReportController {
	return &combinedReportControllerImpl{
		imageAnalysisService: imageAnalysisService,
		logAnalysisService:   logAnalysisService,
		renderer:             renderer,
		systemInfoService:    systemInfoService,
	}
}

type combinedReportControllerImpl struct {
	imageAnalysisService service.ImageAnalysisService
	logAnalysisService   service.LogAnalysisService
	renderer             report.Renderer
	systemInfoService    service.SystemInfoService
}

// GenerateCombinedPDF builds the screenshot audit and the log analysis in
// one request and returns both reports merged into a single document, image
// part first.
func (c *combinedReportControllerImpl) GenerateCombinedPDF(w http.ResponseWriter, r *http.Request) {
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

	imageHeaders := r.MultipartForm.File["images"]
	logHeaders := r.MultipartForm.File["files"]
	if len(imageHeaders) == 0 || len(logHeaders) == 0 {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "images, files"},
		})
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = c.systemInfoService.GetDefaultLanguage()
	}

	images, imagesCleanup, err := saveMultipartFiles(imageHeaders)
	defer imagesCleanup()
	if err == nil {
		var logFiles []view.UploadedFile
		var logsCleanup func()
		logFiles, logsCleanup, err = saveMultipartFiles(logHeaders)
		defer logsCleanup()
		if err == nil {
			c.respondWithCombinedPdf(w, r, images, logFiles, language)
			return
		}
	}
	RespondWithCustomError(w, &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.IncorrectMultipartFile,
		Message: exception.IncorrectMultipartFileMsg,
		Debug:   err.Error(),
	})
}

func (c *combinedReportControllerImpl) respondWithCombinedPdf(w http.ResponseWriter, r *http.Request,
	images []view.UploadedFile, logFiles []view.UploadedFile, language string) {

	analyses, err := c.imageAnalysisService.AnalyzeImages(r.Context(), images, language)
	if err != nil {
		respondWithError(w, "Failed to analyze images", err)
		return
	}
	imagePdf, err := c.renderer.RenderImageReport(analyses)
	if err != nil {
		respondWithError(w, "Failed to render image report", err)
		return
	}

	reports, err := c.logAnalysisService.ProcessLogFiles(r.Context(), logFiles, view.ProcessLogOptions{Language: language})
	if err != nil {
		respondWithError(w, "Failed to analyze log files", err)
		return
	}
	logPdf, err := c.renderer.RenderLogReport(reports)
	if err != nil {
		respondWithError(w, "Failed to render log report", err)
		return
	}

	combined, err := report.MergePDFs(imagePdf, logPdf)
	if err != nil {
		respondWithError(w, "Failed to merge PDF reports", &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.ReportRenderingFailed,
			Message: exception.ReportRenderingFailedMsg,
			Debug:   err.Error(),
		})
		return
	}

	respondWithPdf(w, "combined_audit_weblogic.pdf", combined)
}
