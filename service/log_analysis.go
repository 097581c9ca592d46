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

package service

import (
	"context"
	"net/http"
	"time"

	"github.com/Netcracker/qubership-weblogic-audit-service/exception"
	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"
)

type LogAnalysisService interface {
	ProcessLogFiles(ctx context.Context, files []view.UploadedFile, opts view.ProcessLogOptions) ([]view.FileReport, error)
}

func NewLogAnalysisService(suggestionService SuggestionService) LogAnalysisService {
	return &logAnalysisServiceImpl{suggestionService: suggestionService}
}

type logAnalysisServiceImpl struct {
	suggestionService SuggestionService
}

// ProcessLogFiles runs the grouping engine over every uploaded file in
// upload order, applies the optional minCount/topK post-pass and enriches
// the surviving groups. A file that cannot be read fails the whole request.
func (s logAnalysisServiceImpl) ProcessLogFiles(ctx context.Context, files []view.UploadedFile, opts view.ProcessLogOptions) ([]view.FileReport, error) {
	if opts.Language == "" {
		opts.Language = view.DefaultLanguage
	}

	reports := make([]view.FileReport, 0, len(files))
	for _, file := range files {
		lines, err := ReadLogLines(file.Path)
		if err != nil {
			return nil, &exception.CustomError{
				Status:  http.StatusInternalServerError,
				Code:    exception.LogFileUnreadable,
				Message: exception.LogFileUnreadableMsg,
				Params:  map[string]interface{}{"filename": file.Filename},
				Debug:   err.Error(),
			}
		}

		groups := ParseLogLines(lines)
		groups = FilterGroups(groups, opts.MinCount, opts.TopK)
		log.Debugf("file %s: %d error group(s) after filtering", file.Filename, len(groups))

		s.enrichGroups(ctx, groups, opts.Language)

		reports = append(reports, view.FileReport{Filename: file.Filename, Groups: groups})
	}
	return reports, nil
}

// enrichGroups asks the LLM for an explanation and a fix per group. Groups
// are independent at this stage, so the calls run concurrently; the slice
// order established by FilterGroups is preserved.
func (s logAnalysisServiceImpl) enrichGroups(ctx context.Context, groups []view.ErrorGroup, language string) {
	if len(groups) == 0 {
		return
	}
	start := time.Now()
	iter.ForEach(groups, func(group *view.ErrorGroup) {
		answer := s.suggestionService.Suggest(ctx, group.RepresentativeMessage, language)
		group.Explanation = answer.Reformulated
		group.Solution = answer.Solution
	})
	log.Debugf("enriched %d group(s) in %dms", len(groups), time.Since(start).Milliseconds())
}
