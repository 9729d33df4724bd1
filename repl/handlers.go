package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func AddCorsHeaders(f func(w http.ResponseWriter, req *http.Request)) func(w http.ResponseWriter, req *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Max-Age", "86400")
		f(w, req)
	}
}

// CommandHandler runs the command named by the URL path with the request
// body as its arguments, e.g. POST /spawn "7 1". Output goes to the
// response.
func CommandHandler(repl *REPL, method string) func(w http.ResponseWriter, req *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case "OPTIONS":
			w.Header().Set("Access-Control-Allow-Methods", method)
			w.WriteHeader(http.StatusNoContent)
		case method:
			body, err := io.ReadAll(req.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			args := string(body)
			if id := req.URL.Query().Get("id"); id != "" {
				args = id + " " + args
			}
			cmd := strings.TrimPrefix(req.URL.Path, "/")
			var out bytes.Buffer
			if err = repl.Run(&out, cmd+" "+args); err != nil {
				http.Error(w, err.Error(), statusOf(err))
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(out.Bytes())
		default:
			http.Error(w, fmt.Sprintf("Unsupported method %s", req.Method), http.StatusMethodNotAllowed)
		}
	}
}

func statusOf(err error) int {
	if errors.Is(err, ErrNotOpen) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

var HelpHTTP = errors.New("http :8001 (serves /metrics and the commands)")

// CommandHTTP starts the HTTP front: prometheus metrics and the console
// commands.
func (repl *REPL) CommandHTTP(out io.Writer, args []string) error {
	if len(args) != 1 {
		return HelpHTTP
	}
	if repl.http != nil {
		return errors.New("http is already served")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(repl.metrics, promhttp.HandlerOpts{}))
	for _, cmd := range []string{"layout", "spawn", "despawn", "set", "tick", "listen", "connect", "disconnect", "verify"} {
		mux.HandleFunc("/"+cmd, AddCorsHeaders(CommandHandler(repl, "POST")))
	}
	for _, cmd := range []string{"show", "list", "layouts"} {
		mux.HandleFunc("/"+cmd, AddCorsHeaders(CommandHandler(repl, "GET")))
	}
	repl.http = &http.Server{Addr: args[0], Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	srv := repl.http
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			repl.log.Error("http: server failed", "addr", srv.Addr, "err", err)
		}
	}()
	_, _ = fmt.Fprintf(out, "serving http on %s\n", args[0])
	return nil
}
