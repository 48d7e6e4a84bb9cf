package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Nossos pacotes de infraestrutura e utilitários
	"golocales/config"
	_ "golocales/docs"
	"golocales/internal/app"
	"golocales/internal/domain"
	"golocales/internal/pkg/cache"
	"golocales/internal/pkg/logger"
	"golocales/internal/pkg/middleware"
	"golocales/internal/pkg/mq"
	"golocales/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"golocales/internal/api/local"
	"golocales/internal/api/router"
	"golocales/internal/api/user"
	"golocales/internal/repository/localrepo"
	"golocales/internal/service/localservice"
	"golocales/internal/service/managerservice"
	"golocales/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Configuração inválida.", err)
	}
	log := logger.NewLogger(cfg.LogLevel).With(map[string]interface{}{"service": "golocales", "env": cfg.Environment})
	log.Info("Configurações carregadas.", map[string]interface{}{"driver": cfg.StorageDriver})

	ctx := context.Background()

	// 2. Conexão com Recursos de Infraestrutura

	// A. Armazenamento (DynamoDB, PostgreSQL ou Badger)
	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Falha ao conectar ao armazenamento.", err)
	}
	defer stores.Close()

	var locales domain.LocalRepository = stores.Locales

	// B. Cache (Redis), opcional
	var rateLimit func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		cacheClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis indisponível; seguindo sem cache e sem rate limiting.", map[string]interface{}{"error": err.Error()})
		} else {
			defer cacheClient.Close()
			locales = localrepo.NewCachedRepository(locales, cacheClient, cfg.CacheTTL, log)
			rateLimit = middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, log)
			log.Info("Conexão Redis estabelecida.", nil)
		}
	}

	// C. Eventos (RabbitMQ), opcional
	var events domain.EventPublisher = mq.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Warn("RabbitMQ indisponível; eventos desativados.", map[string]interface{}{"error": err.Error()})
		} else {
			defer publisher.Close()
			events = publisher
			log.Info("Publicador de eventos conectado.", map[string]interface{}{"exchange": cfg.AMQPExchange})
		}
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler
	managers := managerservice.NewService(locales, stores.Users, events, log)
	localSvc := localservice.NewService(locales, managers, events, log, localservice.Options{
		DeleteStrict:          cfg.DeleteStrict,
		DemoteReplacedManager: cfg.DemoteReplacedManager,
	})
	localHandler := local.NewHandler(localSvc, log)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	userSvc := userservice.NewService(stores.Users, tokenSvc, log)
	userHandler := user.NewHandler(userSvc, log)
	log.Debug("Serviços e handlers inicializados.", nil)

	writeRoles := make([]domain.Role, 0, len(cfg.AuthWriteRoles))
	for _, r := range cfg.AuthWriteRoles {
		writeRoles = append(writeRoles, domain.Role(r))
	}

	// 4. Configuração e Início do Roteador/Servidor
	handler := router.NewRouter(localHandler, userHandler, log, router.Options{
		AuthEnabled: cfg.AuthEnabled,
		TokenSvc:    tokenSvc,
		WriteRoles:  writeRoles,
		RateLimit:   rateLimit,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoLocales ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
