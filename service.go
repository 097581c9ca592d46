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

package main

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Netcracker/qubership-weblogic-audit-service/client"
	"github.com/Netcracker/qubership-weblogic-audit-service/controller"
	"github.com/Netcracker/qubership-weblogic-audit-service/report"
	"github.com/Netcracker/qubership-weblogic-audit-service/security"
	"github.com/Netcracker/qubership-weblogic-audit-service/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	readyChan := make(chan bool)
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}
	setLogLevel(systemInfoService.GetLogLevel())

	var llmClient client.LLMClient
	if systemInfoService.GetLLMApiKey() == "" {
		log.Warn("LLM_API_KEY is not set, enrichment is disabled and image analysis will fail")
	} else {
		llmClient, err = client.NewLLMClient(
			systemInfoService.GetLLMProvider(),
			systemInfoService.GetLLMApiKey(),
			systemInfoService.GetLLMModel(),
			systemInfoService.GetLLMBaseUrl())
		if err != nil {
			log.Fatalf("Failed to create LLM client: %v", err)
		}
	}

	suggestionService := service.NewSuggestionService(llmClient)
	logAnalysisService := service.NewLogAnalysisService(suggestionService)
	imageAnalysisService := service.NewImageAnalysisService(llmClient)
	renderer := report.NewRenderer()

	logAnalysisController := controller.NewLogAnalysisController(logAnalysisService, renderer, systemInfoService)
	imageAnalysisController := controller.NewImageAnalysisController(imageAnalysisService, renderer, systemInfoService)
	combinedReportController := controller.NewCombinedReportController(imageAnalysisService, logAnalysisService, renderer, systemInfoService)
	healthController := controller.NewHealthController(readyChan)

	secure := security.NoSecure
	if apiKey := systemInfoService.GetApiKey(); apiKey != "" {
		if err := security.SetupGoGuardian(apiKey); err != nil {
			log.Fatalf("Failed to setup security: %v", err)
		}
		secure = security.Secure
	} else {
		log.Warn("API_KEY is not set, analysis endpoints are not protected")
	}

	router := mux.NewRouter()
	router.HandleFunc("/log/processLogFile", secure(logAnalysisController.ProcessLogFile)).Methods(http.MethodPost)
	router.HandleFunc("/images/generatePDF", secure(imageAnalysisController.GeneratePDF)).Methods(http.MethodPost)
	router.HandleFunc("/combined/generateCombinedPDF", secure(combinedReportController.GenerateCombinedPDF)).Methods(http.MethodPost)

	router.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)
	readyChan <- true
	close(readyChan)

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, router)
	log.Fatalf("%v", srv.ListenAndServe())
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization"}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}))
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 600 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
}

func setLogLevel(level string) {
	if level == "" {
		return
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level '%s', keeping default", level)
		return
	}
	log.SetLevel(parsed)
}
