package public

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/langowen/kursbot/deploy/config"
	"github.com/langowen/kursbot/internal/entities"
	mwLogger "github.com/langowen/kursbot/internal/ports/http/public/middleware/logger"
)

type Server struct {
	Server    *http.Server
	cfg       *config.Config
	converter Converter
	storage   RatesStorage
}

func NewServer(server *http.Server, cfg *config.Config, conv Converter, storage RatesStorage) *Server {
	return &Server{
		Server:    server,
		cfg:       cfg,
		converter: conv,
		storage:   storage,
	}
}

func StartServer(ctx context.Context, conv Converter, storage RatesStorage, cfg *config.Config) <-chan struct{} {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mwLogger.New())
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	serverConfig := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	server := NewServer(serverConfig, cfg, conv, storage)

	r.Get("/rates", server.GetRates)
	r.Get("/currencies", server.GetCurrencies)
	r.Get("/convert", server.Convert)

	doneChan := make(chan struct{})

	go func() {
		if err := server.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to stop server", "error", err)
		}

		close(doneChan)
	}()

	return doneChan
}

type RateResponse struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

type CurrencyResponse struct {
	Code    string `json:"code"`
	RusName string `json:"rus_name"`
	EngName string `json:"eng_name"`
}

func (s *Server) GetRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		RespondWithError(w, statusFromError(err), err.Error())
		return
	}

	response := make([]RateResponse, len(snap))
	for i, c := range snap {
		response[i] = RateResponse{
			Code: c.Code,
			Rate: c.UnitRate,
		}
	}

	RespondWithJSON(w, http.StatusOK, response)
}

func (s *Server) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		RespondWithError(w, statusFromError(err), err.Error())
		return
	}

	response := make([]CurrencyResponse, len(snap))
	for i, c := range snap {
		response[i] = CurrencyResponse{
			Code:    c.Code,
			RusName: c.RusName,
			EngName: c.EngName,
		}
	}

	RespondWithJSON(w, http.StatusOK, response)
}

func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target := r.URL.Query().Get("target")
	source := r.URL.Query().Get("source")
	amount := r.URL.Query().Get("amount")

	result, err := s.converter.Convert(ctx, target, source, amount)
	if err != nil {
		RespondWithError(w, statusFromError(err), err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

func statusFromError(err error) int {
	var unknown *entities.UnknownCurrencyError

	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidAmount),
		errors.Is(err, entities.ErrNonPositiveAmount),
		errors.Is(err, entities.ErrSameCurrency):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrUpstreamFetch),
		errors.Is(err, entities.ErrUpstreamParse):
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string, details ...string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)

	errorText := message
	if len(details) > 0 {
		errorText += "\nDetails: " + details[0]
	}

	if _, err := w.Write([]byte(errorText)); err != nil {
		slog.Error("Failed to write error response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
