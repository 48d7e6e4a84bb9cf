package local

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golocales/internal/domain"
)

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":987654321,"b":"09:00","c":true}`), &v))
	assert.Equal(t, FlexString("987654321"), v.A)
	assert.Equal(t, FlexString("09:00"), v.B)
	assert.Equal(t, FlexString("true"), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":{"x":1}}`), &v))
}

func TestDecodeBody_EmptyIsEmptyObject(t *testing.T) {
	req, raw, err := decodeBody(httptest.NewRequest("PUT", "/", strings.NewReader("  ")))
	require.NoError(t, err)
	assert.Empty(t, raw)
	assert.True(t, req.ToPatch().Empty())
}

func TestToPatch_OnlyPresentFields(t *testing.T) {
	body := `{"direccion":"Calle 9","telefono":" 123 ","hora_finalizacion":null,"gerente":{"nombre":"X","correo":"a@b.c"}}`
	req, _, err := decodeBody(httptest.NewRequest("PATCH", "/", strings.NewReader(body)))
	require.NoError(t, err)

	assert.Equal(t, domain.LocalPatch{
		domain.SetDireccion("Calle 9"),
		domain.SetTelefono("123"),
		domain.SetGerenteNombre("X"),
		domain.SetGerenteCorreo("a@b.c"),
	}, req.ToPatch())
}
