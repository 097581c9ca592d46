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
	log "github.com/sirupsen/logrus"
)

type ImageAnalysisController interface {
	GeneratePDF(w http.ResponseWriter, r *http.Request)
}

func NewImageAnalysisController(imageAnalysisService service.ImageAnalysisService, renderer report.Renderer, systemInfoService service.SystemInfoService) ImageAnalysisController {
	return &imageAnalysisControllerImpl{
		imageAnalysisService: imageAnalysisService,
		renderer:             renderer,
		systemInfoService:    systemInfoService,
	}
}

type imageAnalysisControllerImpl struct {
	imageAnalysisService service.ImageAnalysisService
	renderer             report.Renderer
	systemInfoService    service.SystemInfoService
}

func (c *imageAnalysisControllerImpl) GeneratePDF(w http.ResponseWriter, r *http.Request) {
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

	fileHeaders := r.MultipartForm.File["images"]
	if len(fileHeaders) == 0 {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.NoFilesUploaded,
			Message: exception.NoFilesUploadedMsg,
			Params:  map[string]interface{}{"param": "images"},
		})
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = c.systemInfoService.GetDefaultLanguage()
	}

	images, cleanup, err := saveMultipartFiles(fileHeaders)
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

	analyses, err := c.imageAnalysisService.AnalyzeImages(r.Context(), images, language)
	if err != nil {
		respondWithError(w, "Failed to analyze images", err)
		return
	}

	pdfData, err := c.renderer.RenderImageReport(analyses)
	if err != nil {
		respondWithError(w, "Failed to render image report", &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.ReportRenderingFailed,
			Message: exception.ReportRenderingFailedMsg,
			Debug:   err.Error(),
		})
		return
	}

	respondWithPdf(w, "audit_weblogic.pdf", pdfData)
}
