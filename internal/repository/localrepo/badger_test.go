package localrepo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/kv"
	"golocales/internal/pkg/logger"
)

func newBadgerRepo(t *testing.T) *BadgerRepository {
	t.Helper()
	db, err := kv.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBadgerRepository(db, logger.Nop())
}

func withManager(id, correo string) domain.Local {
	return domain.Local{
		LocalID:   id,
		Direccion: "Av. Siempre Viva 123",
		Gerente:   &domain.Manager{Nombre: "Ana", Correo: correo, Contrasena: "x"},
	}
}

func TestBadger_CreateAndFind(t *testing.T) {
	repo := newBadgerRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, withManager("L1", "ana@mail.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Local{LocalID: "L2", Direccion: "Calle 2"})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "ana@mail.com", got.ManagerEmail())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byManager, err := repo.FindByManager(ctx, "ana@mail.com")
	require.NoError(t, err)
	require.Len(t, byManager, 1)
	assert.Equal(t, "L1", byManager[0].LocalID)

	_, err = repo.FindByID(ctx, "nope")
	assert.True(t, apperror.IsNotFound(err))
}

func TestBadger_CreateRejectsClaimedManager(t *testing.T) {
	repo := newBadgerRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, withManager("L1", "ana@mail.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, withManager("L2", "ana@mail.com"))
	require.Error(t, err)
	var rej *apperror.ManagerRejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, apperror.ReasonManagerAlreadyAssigned, rej.Reason)
	assert.Equal(t, "L1", rej.LocalID)

	_, err = repo.FindByID(ctx, "L2")
	assert.True(t, apperror.IsNotFound(err))
}

func TestBadger_ConcurrentCreatesSameManager(t *testing.T) {
	repo := newBadgerRepo(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, withManager(string(rune('A'+i)), "ana@mail.com"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)

	held, err := repo.FindByManager(ctx, "ana@mail.com")
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestBadger_UpdateMovesClaim(t *testing.T) {
	repo := newBadgerRepo(t)
	ctx := context.Background()

	current, err := repo.Create(ctx, withManager("L1", "ana@mail.com"))
	require.NoError(t, err)

	patch := domain.LocalPatch{domain.SetTelefono("987654321")}.
		WithManager(domain.Manager{Nombre: "Bob", Correo: "bob@mail.com", Contrasena: "y"})
	updated, err := repo.Update(ctx, current, patch)
	require.NoError(t, err)
	assert.Equal(t, "bob@mail.com", updated.ManagerEmail())
	assert.Equal(t, "987654321", updated.Telefono)

	// ana foi liberada e pode gerir outro local
	_, err = repo.Create(ctx, withManager("L2", "ana@mail.com"))
	require.NoError(t, err)

	// bob está preso a L1
	_, err = repo.Create(ctx, withManager("L3", "bob@mail.com"))
	assert.True(t, apperror.IsRejection(err))
}

func TestBadger_UpdateMissing(t *testing.T) {
	repo := newBadgerRepo(t)
	_, err := repo.Update(context.Background(), domain.Local{LocalID: "nope"}, domain.LocalPatch{domain.SetDireccion("x")})
	assert.True(t, apperror.IsNotFound(err))
}

func TestBadger_DeleteReleasesClaim(t *testing.T) {
	repo := newBadgerRepo(t)
	ctx := context.Background()

	local, err := repo.Create(ctx, withManager("L1", "ana@mail.com"))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, local))

	_, err = repo.Create(ctx, withManager("L2", "ana@mail.com"))
	require.NoError(t, err)

	err = repo.Delete(ctx, local)
	assert.True(t, apperror.IsNotFound(err))
}
