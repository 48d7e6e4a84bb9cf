// Package app monta as dependências de armazenamento a partir da configuração.
package app

import (
	"context"
	"fmt"

	"golocales/config"
	"golocales/internal/domain"
	"golocales/internal/pkg/database"
	"golocales/internal/pkg/dynamo"
	"golocales/internal/pkg/kv"
	"golocales/internal/pkg/logger"
	"golocales/internal/repository/localrepo"
	"golocales/internal/repository/userrepo"
)

// UserStore é o diretório de usuários completo, incluindo a gravação usada no seed.
type UserStore interface {
	domain.UserDirectory
	Save(ctx context.Context, user domain.User) (domain.User, error)
}

// Stores agrupa os repositórios do driver escolhido.
type Stores struct {
	Locales domain.LocalRepository
	Users   UserStore
	closers []func() error
}

// Close libera as conexões abertas, na ordem inversa.
func (s *Stores) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenStores conecta ao backend indicado por STORAGE_DRIVER.
func OpenStores(ctx context.Context, cfg *config.Config, log logger.Logger) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.DriverDynamoDB:
		client, err := dynamo.NewClient(ctx, dynamo.Options{Region: cfg.AWSRegion, Endpoint: cfg.DynamoDBEndpoint})
		if err != nil {
			return nil, fmt.Errorf("dynamodb: %w", err)
		}
		log.Info("Cliente DynamoDB inicializado.", map[string]interface{}{
			"locales":  cfg.TableLocales,
			"usuarios": cfg.TableUsuarios,
			"gerentes": cfg.TableGerentes,
		})
		return &Stores{
			Locales: localrepo.NewDynamoRepository(client, cfg.TableLocales, cfg.TableGerentes, cfg.DBTimeout, log),
			Users:   userrepo.NewDynamoRepository(client, cfg.TableUsuarios, cfg.DBTimeout, log),
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("Conexão PostgreSQL estabelecida.", nil)
		return &Stores{
			Locales: localrepo.NewPostgresRepository(db, cfg.DBTimeout, log),
			Users:   userrepo.NewPostgresRepository(db, cfg.DBTimeout, log),
			closers: []func() error{db.Close},
		}, nil

	case config.DriverBadger:
		db, err := kv.Open(cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("badger: %w", err)
		}
		log.Info("Badger aberto.", map[string]interface{}{"path": cfg.BadgerPath, "in_memory": cfg.BadgerPath == ""})
		return &Stores{
			Locales: localrepo.NewBadgerRepository(db, log),
			Users:   userrepo.NewBadgerRepository(db, log),
			closers: []func() error{db.Close},
		}, nil
	}
	return nil, fmt.Errorf("STORAGE_DRIVER desconhecido %q", cfg.StorageDriver)
}
