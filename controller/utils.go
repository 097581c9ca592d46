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
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/Netcracker/qubership-weblogic-audit-service/exception"
	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func respondWithJson(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func RespondWithCustomError(w http.ResponseWriter, err *exception.CustomError) {
	log.Debugf("Request failed. Code = %d. Message = %s. Params: %v. Debug: %s", err.Status, err.Message, err.Params, err.Debug)
	respondWithJson(w, err.Status, err)
}

func respondWithError(w http.ResponseWriter, msg string, err error) {
	log.Errorf("%s: %s", msg, err.Error())
	if customError, ok := err.(*exception.CustomError); ok {
		RespondWithCustomError(w, customError)
	} else {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Message: msg,
			Debug:   err.Error(),
		})
	}
}

func respondWithPdf(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// getOptionalPositiveIntFormValue parses an optional positive integer form
// field. Absent or empty fields return 0.
func getOptionalPositiveIntFormValue(r *http.Request, param string) (int, *exception.CustomError) {
	value := r.FormValue(param)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": param, "value": value},
		}
	}
	return parsed, nil
}

// saveMultipartFiles copies the uploaded parts into uniquely named temp
// files. The returned cleanup must run on every exit path.
func saveMultipartFiles(fileHeaders []*multipart.FileHeader) ([]view.UploadedFile, func(), error) {
	saved := make([]view.UploadedFile, 0, len(fileHeaders))
	cleanup := func() {
		for _, f := range saved {
			if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
				log.Errorf("failed to remove temp file %s: %s", f.Path, err.Error())
			}
		}
	}

	for _, fileHeader := range fileHeaders {
		tmpPath := path.Join(os.TempDir(), fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(fileHeader.Filename)))
		tmpFile, err := os.Create(tmpPath)
		if err != nil {
			return saved, cleanup, err
		}

		file, err := fileHeader.Open()
		if err != nil {
			tmpFile.Close()
			return saved, cleanup, err
		}

		written, err := io.CopyBuffer(tmpFile, file, nil) // copies file with 32KB buffer
		file.Close()
		tmpFile.Close()
		if err != nil {
			log.Errorf("failed to copy file %s (bytes written=%d): %s", fileHeader.Filename, written, err.Error())
			return saved, cleanup, err
		}

		saved = append(saved, view.UploadedFile{Filename: fileHeader.Filename, Path: tmpPath})
	}
	return saved, cleanup, nil
}
