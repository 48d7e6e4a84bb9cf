package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
)

// PostgresRepository implementa o diretório de usuários sobre a tabela usuarios.
type PostgresRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPostgresRepository cria uma nova instância do repositório, injetando o DB.
func NewPostgresRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

// Save insere ou substitui um usuário (usado pelo seed).
func (r *PostgresRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"correo": user.Correo})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO usuarios (correo, nombre, contrasena, role)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (correo) DO UPDATE
        SET nombre = EXCLUDED.nombre, contrasena = EXCLUDED.contrasena, role = EXCLUDED.role`

	if _, err := r.DB.ExecContext(ctxTimeout, query, user.Correo, user.Nombre, user.Contrasena, string(user.Role)); err != nil {
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao salvar usuário", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"correo": user.Correo})
	return user, nil
}

// FindByEmail busca um usuário pelo correo (chave já normalizada).
func (r *PostgresRepository) FindByEmail(ctx context.Context, correo string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT correo, COALESCE(nombre, ''), COALESCE(contrasena, ''), COALESCE(role, '') FROM usuarios WHERE correo = $1`

	var (
		user domain.User
		role string
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, correo).Scan(&user.Correo, &user.Nombre, &user.Contrasena, &role)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Usuário não encontrado no DB.", map[string]interface{}{"correo": correo})
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuario '%s' no encontrado", correo))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por correo no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}
	user.Role = domain.Role(role)
	return user, nil
}

// UpdateRole altera só o papel; usuário inexistente é NotFound e nada é criado.
func (r *PostgresRepository) UpdateRole(ctx context.Context, correo string, role domain.Role) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `UPDATE usuarios SET role = $1 WHERE correo = $2`, string(role), correo)
	if err != nil {
		r.logger.Error("Falha ao atualizar papel do usuário.", err)
		return apperror.NewDBError("Falha ao atualizar papel", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuario '%s' no encontrado", correo))
	}
	return nil
}
