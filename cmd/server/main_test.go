package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	osSignal "os/signal"
	"strings"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/coupon-distributor/internal/application"
)

func TestRootHandlerServesUIAndAPI(t *testing.T) {
	var apiPaths []string
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiPaths = append(apiPaths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	handler, err := application.BuildRootHandler(apiHandler)
	if err != nil {
		t.Fatalf("BuildRootHandler returned error: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "index page", path: "/", wantStatus: http.StatusOK, wantBody: "Coupon Distributor"},
		{name: "client script", path: "/static/app.js", wantStatus: http.StatusOK, wantBody: "/api/distributions"},
		{name: "stylesheet", path: "/static/style.css", wantStatus: http.StatusOK},
		{name: "unknown page", path: "/coupons", wantStatus: http.StatusNotFound},
		{name: "api route", path: "/api/denominations", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q", tt.wantBody)
			}
		})
	}

	if len(apiPaths) != 1 || apiPaths[0] != "/api/denominations" {
		t.Fatalf("expected only API traffic to reach the API handler, got %v", apiPaths)
	}
}

func TestShutdownOnSignal(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	var registered []os.Signal
	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		registered = sig
		go func() {
			ch <- syscall.SIGTERM
		}()
	}

	server := &http.Server{}
	called := make(chan struct{}, 1)
	server.RegisterOnShutdown(func() {
		called <- struct{}{}
	})

	shutdown(server, time.Millisecond, zaptest.NewLogger(t))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatalf("expected server shutdown callback to execute")
	}
	if len(registered) == 0 {
		t.Fatalf("expected shutdown to subscribe to termination signals")
	}
}
