package local

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
)

const maxBodyBytes = 1 << 20

var errBodyNotJSON = apperror.NewValidationError("Body inválido; se esperaba JSON")

// FlexString aceita string, número ou booleano no JSON e guarda o texto.
// 987654321 e "987654321" produzem o mesmo valor.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case json.Number:
		*f = FlexString(t.String())
	case bool:
		if t {
			*f = "true"
		} else {
			*f = "false"
		}
	default:
		return fmt.Errorf("valor no escalar: %s", b)
	}
	return nil
}

func (f *FlexString) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// ManagerRequest é o sub-objeto gerente aceito no body.
type ManagerRequest struct {
	Nombre     *FlexString `json:"nombre,omitempty"`
	Correo     *FlexString `json:"correo,omitempty" example:"ana@mail.com"`
	Contrasena *FlexString `json:"contrasena,omitempty"`
}

// LocalRequest é o body de criação e edição. Campos ausentes ou null não são aplicados.
type LocalRequest struct {
	Direccion        *FlexString     `json:"direccion,omitempty" example:"Av. Siempre Viva 123"`
	Telefono         *FlexString     `json:"telefono,omitempty" example:"987654321"`
	HoraApertura     *FlexString     `json:"hora_apertura,omitempty" example:"09:00"`
	HoraFinalizacion *FlexString     `json:"hora_finalizacion,omitempty" example:"22:00"`
	Gerente          *ManagerRequest `json:"gerente,omitempty"`
}

// decodeBody lê o body como objeto JSON. Aceita também o objeto serializado dentro
// de uma string JSON, como chega por alguns gateways. Body vazio equivale a {}.
// raw é o objeto genérico, usado só para log.
func decodeBody(r *http.Request) (LocalRequest, map[string]interface{}, error) {
	var req LocalRequest

	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return req, nil, errBodyNotJSON
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return req, map[string]interface{}{}, nil
	}
	if b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return req, nil, errBodyNotJSON
		}
		b = []byte(strings.TrimSpace(inner))
		if len(b) == 0 {
			return req, map[string]interface{}{}, nil
		}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		return req, nil, errBodyNotJSON
	}
	if err := json.Unmarshal(b, &req); err != nil {
		return req, nil, apperror.NewValidationError("Body inválido: " + typeErrorField(err))
	}
	return req, raw, nil
}

func typeErrorField(err error) string {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return "tipo inválido en '" + te.Field + "'"
	}
	return "formato no reconocido"
}

// ToInput converte o body no input de criação.
func (req LocalRequest) ToInput() domain.NewLocalInput {
	in := domain.NewLocalInput{
		Direccion:        req.Direccion.String(),
		Telefono:         req.Telefono.String(),
		HoraApertura:     req.HoraApertura.String(),
		HoraFinalizacion: req.HoraFinalizacion.String(),
	}
	if req.Gerente != nil {
		in.GerenteCorreo = req.Gerente.Correo.String()
	}
	return in
}

// ToPatch converte o body numa edição tipada com apenas os campos presentes.
func (req LocalRequest) ToPatch() domain.LocalPatch {
	var p domain.LocalPatch
	if req.Direccion != nil {
		p = p.Set(domain.SetDireccion(*req.Direccion))
	}
	if req.Telefono != nil {
		p = p.Set(domain.SetTelefono(strings.TrimSpace(string(*req.Telefono))))
	}
	if req.HoraApertura != nil {
		p = p.Set(domain.SetHoraApertura(*req.HoraApertura))
	}
	if req.HoraFinalizacion != nil {
		p = p.Set(domain.SetHoraFinalizacion(*req.HoraFinalizacion))
	}
	if g := req.Gerente; g != nil {
		if g.Nombre != nil {
			p = p.Set(domain.SetGerenteNombre(*g.Nombre))
		}
		if g.Correo != nil {
			p = p.Set(domain.SetGerenteCorreo(*g.Correo))
		}
		if g.Contrasena != nil {
			p = p.Set(domain.SetGerenteContrasena(*g.Contrasena))
		}
	}
	return p
}
