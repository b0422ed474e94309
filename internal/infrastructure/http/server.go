// Package http provides the HTTP serving layer over the query pipeline.
// Thin plumbing only: routing, request validation and JSON encoding.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
	"github.com/Pahinithi/stock-market-chatbot/internal/domain/ports"
	"github.com/Pahinithi/stock-market-chatbot/internal/domain/usecases"
)

// maxRecordLimit caps the per-request record count on the data endpoints.
const maxRecordLimit = 100

// Server is the HTTP server for the chatbot API.
type Server struct {
	chat  *usecases.ChatUseCase
	store ports.MarketStore
	addr  string
}

// NewServer creates a new HTTP server.
func NewServer(chat *usecases.ChatUseCase, store ports.MarketStore, addr string) *Server {
	return &Server{chat: chat, store: store, addr: addr}
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /data/summary", s.handleSummary)
	mux.HandleFunc("GET /indices", s.handleIndices)
	mux.HandleFunc("GET /indices/region/{region}", s.handleRegionIndices)
	mux.HandleFunc("GET /stock-data/{symbol}", s.handleStockData)

	return corsMiddleware(loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // room for the backend call
	}

	log.Printf("[INFO] stock chatbot server starting on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleRoot returns API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Stock Market Chatbot API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"chat":           "/chat",
			"query":          "/query",
			"data_summary":   "/data/summary",
			"indices":        "/indices",
			"stock_data":     "/stock-data/{symbol}",
			"region_indices": "/indices/region/{region}",
			"health":         "/health",
		},
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "message": "API is running"})
}

// handleChat processes a chat message through the full pipeline.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.chat.Answer(r.Context(), req))
}

// handleQuery sends the message to the language backend without grounding.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.chat.Direct(r.Context(), req))
}

// handleSummary returns dataset summary statistics.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Summary())
}

// handleIndices returns all known indices.
func (s *Server) handleIndices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListIndices(""))
}

// handleRegionIndices returns the indices of one region.
func (s *Server) handleRegionIndices(w http.ResponseWriter, r *http.Request) {
	region := r.PathValue("region")
	indices := s.store.ListIndices(region)
	if len(indices) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No indices found for region: %s", region))
		return
	}
	writeJSON(w, http.StatusOK, indices)
}

// handleStockData returns recent records for one symbol.
func (s *Server) handleStockData(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxRecordLimit {
		limit = maxRecordLimit
	}

	records := s.store.Records(symbol, limit)
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No data found for index: %s", symbol))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// decodeChatRequest parses and validates the chat request body.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (*entities.ChatRequest, bool) {
	var req entities.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return nil, false
	}
	return &req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()[:8]
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %s %v", id, r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
