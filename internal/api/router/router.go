package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"golocales/internal/api/local"
	"golocales/internal/api/user"
	"golocales/internal/domain"
	"golocales/internal/pkg/logger"
	"golocales/internal/pkg/middleware"
)

// Options controla as camadas opcionais do roteador.
type Options struct {
	// AuthEnabled exige Bearer token com um dos WriteRoles nas rotas de escrita.
	AuthEnabled bool
	TokenSvc    middleware.TokenService
	WriteRoles  []domain.Role
	// RateLimit é aplicado a todas as rotas quando não nil.
	RateLimit func(http.Handler) http.Handler
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(localHandler *local.Handler, userHandler *user.Handler, log logger.Logger, opts Options) http.Handler {
	mux := http.NewServeMux()

	write := func(h http.HandlerFunc) http.Handler {
		if !opts.AuthEnabled {
			return h
		}
		return middleware.Chain(h,
			middleware.NewAuthMiddleware(opts.TokenSvc),
			middleware.PermissionMiddleware(opts.WriteRoles...),
		)
	}

	// --- Health check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- Autenticação ---
	mux.HandleFunc("POST /v1/auth/login", userHandler.LoginUserHandler)

	// --- Locais (v1) ---
	mux.HandleFunc("GET /v1/locales", localHandler.ListLocalesHandler)
	mux.HandleFunc("GET /v1/locales/{local_id}", localHandler.GetLocalHandler)
	mux.Handle("POST /v1/locales", write(localHandler.CreateLocalHandler))

	update := write(localHandler.UpdateLocalHandler)
	mux.Handle("PUT /v1/locales/{local_id}", update)
	mux.Handle("PATCH /v1/locales/{local_id}", update)

	del := write(localHandler.DeleteLocalHandler)
	mux.Handle("DELETE /v1/locales/{local_id}", del)

	// Sem identificador no caminho: o handler responde 400.
	for _, pattern := range []string{"PUT /v1/locales", "PUT /v1/locales/{$}", "PATCH /v1/locales", "PATCH /v1/locales/{$}"} {
		mux.Handle(pattern, update)
	}
	for _, pattern := range []string{"DELETE /v1/locales", "DELETE /v1/locales/{$}"} {
		mux.Handle(pattern, del)
	}

	mws := []func(http.Handler) http.Handler{
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.CORS,
		middleware.Logging(log),
	}
	if opts.RateLimit != nil {
		mws = append(mws, opts.RateLimit)
	}
	return middleware.Chain(mux, mws...)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
