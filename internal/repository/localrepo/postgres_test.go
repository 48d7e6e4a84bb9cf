package localrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golocales/internal/domain"
)

func TestBuildUpdate(t *testing.T) {
	patch := domain.LocalPatch{
		domain.SetDireccion("Calle 1"),
		domain.SetTelefono(""),
	}.WithManager(domain.Manager{Nombre: "Ana", Correo: "ana@mail.com"})

	query, args, err := buildUpdate("L1", patch)
	require.NoError(t, err)

	assert.Contains(t, query, "direccion = $1")
	assert.Contains(t, query, "telefono = $2")
	assert.Contains(t, query, "gerente_correo = $4")
	assert.Contains(t, query, "WHERE local_id = $6")
	assert.Equal(t, []interface{}{"Calle 1", nil, "Ana", "ana@mail.com", nil, "L1"}, args)
}

func TestBuildUpdate_Empty(t *testing.T) {
	_, _, err := buildUpdate("L1", nil)
	assert.Error(t, err)
}
