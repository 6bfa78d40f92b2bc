package main

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/katara/mono-repo/backend/shared/go-middleware"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

const (
	appName       = "meta-service"
	defaultPort   = "6766"
	checkTimeout  = 2 * time.Second
	statusHealthy = "OK"
)

var defaultServiceURLs = []string{
	"http://localhost:6767/health", // auth-service
	"http://localhost:6768/health", // account-service
	"http://localhost:6769/health", // points-service
	"http://localhost:6770/health", // chat-service
}

type serviceStatus struct {
	URL     string `json:"url"`
	Healthy bool   `json:"healthy"`
}

type healthReport struct {
	Status   string          `json:"status"`
	Services []serviceStatus `json:"services"`
}

type healthChecker struct {
	client *http.Client
	urls   []string
}

func newHealthChecker(urls []string) *healthChecker {
	return &healthChecker{client: &http.Client{Timeout: checkTimeout}, urls: urls}
}

// check probes every service concurrently; results keep the order of urls.
func (h *healthChecker) check(ctx context.Context) healthReport {
	report := healthReport{Status: statusHealthy, Services: make([]serviceStatus, len(h.urls))}

	var wg sync.WaitGroup
	for i, url := range h.urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			report.Services[i] = serviceStatus{URL: u, Healthy: h.probe(ctx, u)}
		}(i, url)
	}
	wg.Wait()

	for _, s := range report.Services {
		if !s.Healthy {
			utils.Logger.WithField("url", s.URL).Warn("(Health Check) Service unhealthy")
			report.Status = "UNHEALTHY"
		}
	}
	return report
}

func (h *healthChecker) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (h *healthChecker) healthHandler(w http.ResponseWriter, r *http.Request) {
	report := h.check(r.Context())
	status := http.StatusOK
	if report.Status != statusHealthy {
		status = http.StatusServiceUnavailable
	}
	utils.RespondWithJSON(w, status, report)
}

func newRouter(h *healthChecker) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)
	router.HandleFunc("/health", h.healthHandler).Methods(http.MethodGet)
	return router
}

func main() {
	utils.InitLogger(appName)
	utils.LoadDotEnv()

	env := utils.NewEnv(os.Getenv)
	port := env.String("PORT", defaultPort)
	urls := env.List("SERVICE_HEALTH_URLS", defaultServiceURLs)
	if err := env.Err(); err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}

	srv := utils.NewHTTPServer(port, newRouter(newHealthChecker(urls)))
	utils.Logger.Infof("Starting health check service on port %s", port)
	if err := utils.ServeUntilSignal(srv); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}
