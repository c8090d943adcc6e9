// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊與中介層。
// handler.go 定義「如何處理請求」，router.go 定義「請求如何被導向」。
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router 建立並回傳整個 HTTP 處理鏈。
func (s *Server) Router() http.Handler {
	v1 := chi.NewRouter()

	v1.Get("/health", s.health)

	v1.Route("/customers", func(r chi.Router) {
		r.Get("/", s.listCustomers)
		r.Post("/", s.createCustomer)
		r.Get("/{id}/accounts", s.customerAccounts)
		r.Post("/{id}/accounts", s.createAccount)
		r.Post("/{id}/accounts/{selector}/deposit", s.deposit)
		r.Post("/{id}/accounts/{selector}/withdraw", s.withdraw)
	})

	v1.Post("/transfer", s.transfer)

	root := chi.NewRouter()
	root.Use(middleware.RequestID)
	root.Use(middleware.Recoverer)
	root.Use(s.accessLog)
	root.Use(s.serialize)

	// 同一組端點同時掛在 /api/v1 與根路徑。
	root.Mount("/api/v1", v1)
	root.Mount("/", v1)
	return root
}

// serialize 讓請求逐一進入帳本。
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
