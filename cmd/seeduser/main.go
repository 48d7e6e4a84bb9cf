package main

import (
	"context"
	"flag"
	"fmt"

	"golocales/config"
	"golocales/internal/app"
	"golocales/internal/domain"
	"golocales/internal/pkg/logger"
	"golocales/internal/pkg/token"
	"golocales/internal/service/userservice"
)

// Grava um usuário no diretório do driver configurado, com a senha em bcrypt.
//
//	go run ./cmd/seeduser -correo ana@mail.com -nombre Ana -contrasena secreta -role Cliente
func main() {
	var (
		correo     = flag.String("correo", "", "correo do usuário")
		nombre     = flag.String("nombre", "", "nome do usuário")
		contrasena = flag.String("contrasena", "", "senha em texto")
		role       = flag.String("role", string(domain.RoleCliente), "papel: Cliente ou Gerente")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("seeduser: configuração inválida", err)
	}
	log := logger.NewLogger(cfg.LogLevel)

	ctx := context.Background()
	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("seeduser: falha ao conectar ao armazenamento", err)
	}
	defer stores.Close()

	svc := userservice.NewService(stores.Users, token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry), log)
	user, err := svc.Register(ctx, domain.User{
		Correo:     *correo,
		Nombre:     *nombre,
		Contrasena: *contrasena,
		Role:       domain.Role(*role),
	})
	if err != nil {
		log.Fatal("seeduser: falha ao registrar usuário", err)
	}
	fmt.Printf("usuário %s gravado com papel %s\n", user.Correo, user.Role)
}
