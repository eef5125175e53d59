package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/slidesmcp/internal/gcp"
	"github.com/Lllllllleong/slidesmcp/internal/services"
	"github.com/Lllllllleong/slidesmcp/internal/tools"
	"github.com/joho/godotenv"
)

var (
	toolHandler http.Handler
	once        sync.Once
	initErr     error

	closersMu sync.Mutex
	closers   []func() error
)

func init() {
	// "HandleSlidesTool" is the entry point name configured in GCP.
	functions.HTTP("HandleSlidesTool", handleSlidesTool)
	go closeOnSignal()
}

// main is required by the Go Functions Framework.
func main() {}

// handleSlidesTool runs one tool call per request.
func handleSlidesTool(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		if initErr = initialize(); initErr != nil {
			if err := shutdown(); err != nil {
				log.Printf("ERROR: cleanup after failed initialization: %v", err)
			}
		}
	})
	if initErr != nil {
		log.Printf("CRITICAL: Slides service initialization failed: %v", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	toolHandler.ServeHTTP(w, r)
}

// initialize sets up logging and the slides service, registering everything
// that must be released on shutdown.
func initialize() error {
	_ = godotenv.Load()

	closeLog, err := gcp.ConfigureLogging(os.Stdout)
	if err != nil {
		return err
	}
	addCloser(closeLog)

	// Interactive consent cannot run inside a function.
	if _, set := os.LookupEnv("OAUTH_INTERACTIVE"); !set {
		if err := os.Setenv("OAUTH_INTERACTIVE", "false"); err != nil {
			slog.Warn("Could not disable interactive authorization", "error", err)
		}
	}

	svc, err := services.NewSlidesFunction(context.Background(), services.SlogRecorder{})
	if err != nil {
		return err
	}
	addCloser(svc.Close)
	toolHandler = tools.Handler(svc)
	return nil
}

func addCloser(c func() error) {
	closersMu.Lock()
	defer closersMu.Unlock()
	closers = append(closers, c)
}

// shutdown runs the registered closers in reverse order. It is safe to call
// more than once.
func shutdown() error {
	closersMu.Lock()
	pending := closers
	closers = nil
	closersMu.Unlock()

	var errs []error
	for i := len(pending) - 1; i >= 0; i-- {
		if err := pending[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// closeOnSignal releases clients and the log file when the instance is
// stopped.
func closeOnSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM)
	<-ch
	if err := shutdown(); err != nil {
		log.Printf("ERROR: shutdown: %v", err)
	}
	os.Exit(0)
}
