package localrepo

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

const (
	localPrefix = "local:"
	claimPrefix = "gerente:"
	maxRetries  = 5
)

func localKeyBytes(id string) []byte { return []byte(localPrefix + id) }
func claimKeyBytes(correo string) []byte { return []byte(claimPrefix + correo) }

// errLocalMissing sinaliza, dentro da transação, que o local não existe.
var errLocalMissing = errors.New("local missing")

// BadgerRepository implementa domain.LocalRepository sobre um badger embutido.
// A reivindicação do gerente é a chave gerente:<correo>, gravada na mesma transação do local.
type BadgerRepository struct {
	db     *badger.DB
	logger logger.Logger
}

func NewBadgerRepository(db *badger.DB, log logger.Logger) *BadgerRepository {
	return &BadgerRepository{db: db, logger: log}
}

// update roda fn numa transação, repetindo em conflitos de escrita concorrente.
func (r *BadgerRepository) update(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func readLocal(txn *badger.Txn, id string) (domain.Local, error) {
	item, err := txn.Get(localKeyBytes(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Local{}, errLocalMissing
	}
	if err != nil {
		return domain.Local{}, err
	}
	var local domain.Local
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &local)
	})
	return local, err
}

func writeLocal(txn *badger.Txn, local domain.Local) error {
	b, err := json.Marshal(local)
	if err != nil {
		return err
	}
	return txn.Set(localKeyBytes(local.LocalID), b)
}

// claimManager grava a reivindicação; devolve o local que já a detém, se houver outro.
func claimManager(txn *badger.Txn, correo, localID string) (string, error) {
	item, err := txn.Get(claimKeyBytes(correo))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return "", err
	default:
		holder, err := item.ValueCopy(nil)
		if err != nil {
			return "", err
		}
		if string(holder) != localID {
			return string(holder), nil
		}
	}
	return "", txn.Set(claimKeyBytes(correo), []byte(localID))
}

// releaseManager remove a reivindicação apenas se pertencer ao local.
func releaseManager(txn *badger.Txn, correo, localID string) error {
	item, err := txn.Get(claimKeyBytes(correo))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	holder, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if string(holder) != localID {
		return nil
	}
	return txn.Delete(claimKeyBytes(correo))
}

func (r *BadgerRepository) Create(ctx context.Context, local domain.Local) (domain.Local, error) {
	if err := ctx.Err(); err != nil {
		return domain.Local{}, err
	}
	correo := local.ManagerEmail()

	var holder string
	err := r.update(func(txn *badger.Txn) error {
		holder = ""
		if _, err := txn.Get(localKeyBytes(local.LocalID)); err == nil {
			return fmt.Errorf("local %s já existe", local.LocalID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if correo != "" {
			h, err := claimManager(txn, correo, local.LocalID)
			if err != nil || h != "" {
				holder = h
				return err
			}
		}
		return writeLocal(txn, local)
	})
	if err != nil {
		r.logger.Error("Falha ao inserir local no badger.", err)
		return domain.Local{}, apperror.NewDBError("Falha ao criar local", err)
	}
	if holder != "" {
		return domain.Local{}, apperror.NewManagerAlreadyAssigned(correo, holder)
	}
	return local, nil
}

func (r *BadgerRepository) FindByID(ctx context.Context, id string) (domain.Local, error) {
	var local domain.Local
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		local, err = readLocal(txn, id)
		return err
	})
	if errors.Is(err, errLocalMissing) {
		return domain.Local{}, apperror.NewNotFoundError("Local no encontrado")
	}
	if err != nil {
		return domain.Local{}, apperror.NewDBError("Error al obtener el local", err)
	}
	return local, nil
}

func (r *BadgerRepository) FindAll(ctx context.Context) ([]domain.Local, error) {
	return r.iterate(ctx, func(domain.Local) bool { return true })
}

func (r *BadgerRepository) FindByManager(ctx context.Context, correo string) ([]domain.Local, error) {
	return r.iterate(ctx, func(l domain.Local) bool { return l.ManagerEmail() == correo })
}

func (r *BadgerRepository) iterate(ctx context.Context, keep func(domain.Local) bool) ([]domain.Local, error) {
	locales := []domain.Local{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(localPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var local domain.Local
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &local)
			}); err != nil {
				return err
			}
			if keep(local) {
				locales = append(locales, local)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.NewDBError("Error al listar los locales", err)
	}
	return locales, nil
}

// Update relê o local dentro da transação e aplica o patch sobre o estado armazenado.
func (r *BadgerRepository) Update(ctx context.Context, current domain.Local, patch domain.LocalPatch) (domain.Local, error) {
	if err := ctx.Err(); err != nil {
		return domain.Local{}, err
	}
	newCorreo, changing := patch.ManagerEmail()

	var (
		updated domain.Local
		holder  string
	)
	err := r.update(func(txn *badger.Txn) error {
		holder = ""
		stored, err := readLocal(txn, current.LocalID)
		if err != nil {
			return err
		}
		oldCorreo := stored.ManagerEmail()
		if changing && newCorreo != oldCorreo {
			h, err := claimManager(txn, newCorreo, stored.LocalID)
			if err != nil || h != "" {
				holder = h
				return err
			}
			if oldCorreo != "" {
				if err := releaseManager(txn, oldCorreo, stored.LocalID); err != nil {
					return err
				}
			}
		}
		updated = patch.ApplyTo(stored)
		return writeLocal(txn, updated)
	})
	if errors.Is(err, errLocalMissing) {
		return domain.Local{}, apperror.NewNotFoundError("Local no encontrado")
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar local no badger.", err)
		return domain.Local{}, apperror.NewDBError("Falha ao atualizar local", err)
	}
	if holder != "" {
		return domain.Local{}, apperror.NewManagerAlreadyAssigned(newCorreo, holder)
	}
	return updated, nil
}

func (r *BadgerRepository) Delete(ctx context.Context, local domain.Local) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.update(func(txn *badger.Txn) error {
		stored, err := readLocal(txn, local.LocalID)
		if err != nil {
			return err
		}
		if correo := stored.ManagerEmail(); correo != "" {
			if err := releaseManager(txn, correo, stored.LocalID); err != nil {
				return err
			}
		}
		return txn.Delete(localKeyBytes(stored.LocalID))
	})
	if errors.Is(err, errLocalMissing) {
		return apperror.NewNotFoundError("Local no encontrado")
	}
	if err != nil {
		r.logger.Error("Falha ao eliminar local no badger.", err)
		return apperror.NewDBError("Falha ao eliminar local", err)
	}
	return nil
}
