package main

import (
	_ "embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/rockfield/internal/config"
	"github.com/tomz197/rockfield/internal/leaderboard"
)

const (
	appName     = "rockfield"
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var indexHTML string

var pageTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc":     func(i int) int { return i + 1 },
	"percent": func(f float64) float64 { return f * 100 },
}).Parse(indexHTML))

type page struct {
	SSHHost string
	SSHPort string
	Entries []leaderboard.Entry
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          appName + "-web",
	})

	if err := config.LoadEnvFile(config.GetEnv("ASTEROIDS_ENV_FILE", ".env")); err != nil {
		logger.Fatal("failed to load env file", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "")
	rows := config.GetEnvInt("WEB_ROWS", leaderboard.DefaultLimit)

	board, err := leaderboard.Open(appName, leaderboard.DefaultLimit, logger)
	if board == nil {
		logger.Fatal("failed to open leaderboard", "err", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		// The SSH server writes the table from another process
		if err := board.Reload(); err != nil {
			logger.Warn("failed to reload leaderboard", "err", err)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := pageTmpl.Execute(w, page{
			SSHHost: sshHost,
			SSHPort: sshPort,
			Entries: board.Top(rows),
		})
		if err != nil {
			logger.Error("failed to render page", "err", err)
		}
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "addr", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}
