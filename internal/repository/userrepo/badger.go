package userrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
)

const userPrefix = "usuario:"

var errUserMissing = errors.New("user missing")

// BadgerRepository guarda usuários como JSON sob usuario:<correo>.
type BadgerRepository struct {
	db     *badger.DB
	logger logger.Logger
}

func NewBadgerRepository(db *badger.DB, log logger.Logger) *BadgerRepository {
	return &BadgerRepository{db: db, logger: log}
}

func readUser(txn *badger.Txn, correo string) (domain.User, error) {
	item, err := txn.Get([]byte(userPrefix + correo))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errUserMissing
	}
	if err != nil {
		return domain.User{}, err
	}
	var u storedUser
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &u) }); err != nil {
		return domain.User{}, err
	}
	return u.toDomain(), nil
}

func writeUser(txn *badger.Txn, user domain.User) error {
	b, err := json.Marshal(fromDomain(user))
	if err != nil {
		return err
	}
	return txn.Set([]byte(userPrefix+user.Correo), b)
}

// storedUser existe porque domain.User omite contrasena no JSON.
type storedUser struct {
	Correo     string `json:"correo"`
	Nombre     string `json:"nombre,omitempty"`
	Contrasena string `json:"contrasena,omitempty"`
	Role       string `json:"role"`
}

func fromDomain(u domain.User) storedUser {
	return storedUser{Correo: u.Correo, Nombre: u.Nombre, Contrasena: u.Contrasena, Role: string(u.Role)}
}

func (s storedUser) toDomain() domain.User {
	return domain.User{Correo: s.Correo, Nombre: s.Nombre, Contrasena: s.Contrasena, Role: domain.Role(s.Role)}
}

func (r *BadgerRepository) FindByEmail(ctx context.Context, correo string) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = readUser(txn, correo)
		return err
	})
	if errors.Is(err, errUserMissing) {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuario '%s' no encontrado", correo))
	}
	if err != nil {
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}
	return user, nil
}

func (r *BadgerRepository) UpdateRole(ctx context.Context, correo string, role domain.Role) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		user, err := readUser(txn, correo)
		if err != nil {
			return err
		}
		user.Role = role
		return writeUser(txn, user)
	})
	if errors.Is(err, errUserMissing) {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuario '%s' no encontrado", correo))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar papel no badger.", err)
		return apperror.NewDBError("Falha ao atualizar papel", err)
	}
	return nil
}

func (r *BadgerRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	if err := r.db.Update(func(txn *badger.Txn) error { return writeUser(txn, user) }); err != nil {
		return domain.User{}, apperror.NewDBError("Falha ao salvar usuário", err)
	}
	return user, nil
}
