package localrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
)

// uniqueViolation é o SQLSTATE do índice único locales_gerente_correo_key.
const uniqueViolation = "23505"

const selectColumns = `local_id, direccion, telefono, hora_apertura, hora_finalizacion,
        gerente_nombre, gerente_correo, gerente_contrasena`

// columns mapeia o caminho de cada alteração para a coluna da tabela locales.
var columns = map[string]string{
	"direccion":          "direccion",
	"telefono":           "telefono",
	"hora_apertura":      "hora_apertura",
	"hora_finalizacion":  "hora_finalizacion",
	"gerente.nombre":     "gerente_nombre",
	"gerente.correo":     "gerente_correo",
	"gerente.contrasena": "gerente_contrasena",
}

// PostgresRepository implementa domain.LocalRepository sobre PostgreSQL.
// A unicidade do gerente é garantida pelo índice único parcial em gerente_correo.
type PostgresRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewPostgresRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

// nullable grava string vazia como NULL, mantendo o índice parcial livre.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLocal(row scanner) (domain.Local, error) {
	var (
		local                                     domain.Local
		telefono, apertura, cierre                sql.NullString
		gerenteNombre, gerenteCorreo, gerentePass sql.NullString
	)
	err := row.Scan(&local.LocalID, &local.Direccion, &telefono, &apertura, &cierre,
		&gerenteNombre, &gerenteCorreo, &gerentePass)
	if err != nil {
		return domain.Local{}, err
	}
	local.Telefono = telefono.String
	local.HoraApertura = apertura.String
	local.HoraFinalizacion = cierre.String
	if gerenteNombre.Valid || gerenteCorreo.Valid || gerentePass.Valid {
		local.Gerente = &domain.Manager{
			Nombre:     gerenteNombre.String,
			Correo:     gerenteCorreo.String,
			Contrasena: gerentePass.String,
		}
	}
	return local, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// holderOf procura qual local detém o correo após uma violação do índice único.
func (r *PostgresRepository) holderOf(ctx context.Context, correo string) string {
	var id string
	err := r.DB.QueryRowContext(ctx, `SELECT local_id FROM locales WHERE gerente_correo = $1`, correo).Scan(&id)
	if err != nil {
		r.logger.Warn("Não foi possível identificar o local do gerente.", map[string]interface{}{"correo": correo, "error": err.Error()})
	}
	return id
}

func (r *PostgresRepository) Create(ctx context.Context, local domain.Local) (domain.Local, error) {
	r.logger.Debug("Iniciando Create no repositório.", map[string]interface{}{"local_id": local.LocalID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var g domain.Manager
	if local.Gerente != nil {
		g = *local.Gerente
	}

	query := `
        INSERT INTO locales (` + selectColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + selectColumns

	created, err := scanLocal(r.DB.QueryRowContext(ctxTimeout, query,
		local.LocalID, local.Direccion, nullable(local.Telefono), nullable(local.HoraApertura),
		nullable(local.HoraFinalizacion), nullable(g.Nombre), nullable(g.Correo), nullable(g.Contrasena),
	))
	if isUniqueViolation(err) && g.Correo != "" {
		return domain.Local{}, apperror.NewManagerAlreadyAssigned(g.Correo, r.holderOf(ctx, g.Correo))
	}
	if err != nil {
		r.logger.Error("Falha ao inserir local no DB.", err)
		return domain.Local{}, apperror.NewDBError("Falha ao criar local", err)
	}

	r.logger.Info("Local criado com sucesso.", map[string]interface{}{"local_id": created.LocalID})
	return created, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (domain.Local, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + selectColumns + ` FROM locales WHERE local_id = $1`

	local, err := scanLocal(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Local{}, apperror.NewNotFoundError("Local no encontrado")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar local no DB.", err)
		return domain.Local{}, apperror.NewDBError("Error al obtener el local", err)
	}
	return local, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]domain.Local, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM locales ORDER BY local_id`)
}

func (r *PostgresRepository) FindByManager(ctx context.Context, correo string) ([]domain.Local, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM locales WHERE gerente_correo = $1`, correo)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Local, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao consultar locais.", err)
		return nil, apperror.NewDBError("Error al listar los locales", err)
	}
	defer rows.Close()

	locales := []domain.Local{}
	for rows.Next() {
		local, err := scanLocal(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear locais do DB", err)
		}
		locales = append(locales, local)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de locais", err)
	}
	return locales, nil
}

// buildUpdate monta o UPDATE parametrizado a partir do patch.
func buildUpdate(id string, patch domain.LocalPatch) (string, []interface{}, error) {
	sets := make([]string, 0, len(patch))
	args := make([]interface{}, 0, len(patch)+1)
	for _, u := range patch {
		col, ok := columns[domain.PathKey(u)]
		if !ok {
			return "", nil, fmt.Errorf("campo não atualizável: %s", domain.PathKey(u))
		}
		if _, required := u.(domain.SetDireccion); required {
			args = append(args, u.Value())
		} else {
			args = append(args, nullable(u.Value()))
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("nada a atualizar")
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE locales SET %s WHERE local_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), selectColumns)
	return query, args, nil
}

// Update aplica o patch numa só instrução; trocar o gerente move a reivindicação junto.
func (r *PostgresRepository) Update(ctx context.Context, current domain.Local, patch domain.LocalPatch) (domain.Local, error) {
	r.logger.Debug("Iniciando Update no repositório.", map[string]interface{}{"local_id": current.LocalID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := buildUpdate(current.LocalID, patch)
	if err != nil {
		return domain.Local{}, apperror.NewValidationError(err.Error())
	}

	updated, err := scanLocal(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Local{}, apperror.NewNotFoundError("Local no encontrado")
	}
	if isUniqueViolation(err) {
		correo, _ := patch.ManagerEmail()
		return domain.Local{}, apperror.NewManagerAlreadyAssigned(correo, r.holderOf(ctx, correo))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar local no DB.", err)
		return domain.Local{}, apperror.NewDBError("Falha ao atualizar local", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, local domain.Local) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM locales WHERE local_id = $1`, local.LocalID)
	if err != nil {
		r.logger.Error("Falha ao deletar local do DB.", err)
		return apperror.NewDBError("Falha ao eliminar local", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("Local no encontrado")
	}

	r.logger.Info("Local eliminado.", map[string]interface{}{"local_id": local.LocalID})
	return nil
}
