package domain

import "strings"

// LocalUpdate é a alteração tipada de um único campo atualizável do Local.
// As variantes são fechadas neste pacote; os repositórios traduzem cada uma
// para a atualização parcial nativa do backend.
type LocalUpdate interface {
	// Path é o caminho do atributo, e.g. ["gerente", "correo"].
	Path() []string
	Value() string
	applyTo(l *Local)
}

type (
	SetDireccion         string
	SetTelefono          string
	SetHoraApertura      string
	SetHoraFinalizacion  string
	SetGerenteNombre     string
	SetGerenteCorreo     string
	SetGerenteContrasena string
)

func (u SetDireccion) Path() []string        { return []string{"direccion"} }
func (u SetTelefono) Path() []string         { return []string{"telefono"} }
func (u SetHoraApertura) Path() []string     { return []string{"hora_apertura"} }
func (u SetHoraFinalizacion) Path() []string { return []string{"hora_finalizacion"} }
func (u SetGerenteNombre) Path() []string    { return []string{"gerente", "nombre"} }
func (u SetGerenteCorreo) Path() []string    { return []string{"gerente", "correo"} }
func (u SetGerenteContrasena) Path() []string {
	return []string{"gerente", "contrasena"}
}

func (u SetDireccion) Value() string         { return string(u) }
func (u SetTelefono) Value() string          { return string(u) }
func (u SetHoraApertura) Value() string      { return string(u) }
func (u SetHoraFinalizacion) Value() string  { return string(u) }
func (u SetGerenteNombre) Value() string     { return string(u) }
func (u SetGerenteCorreo) Value() string     { return string(u) }
func (u SetGerenteContrasena) Value() string { return string(u) }

func (u SetDireccion) applyTo(l *Local)        { l.Direccion = string(u) }
func (u SetTelefono) applyTo(l *Local)         { l.Telefono = string(u) }
func (u SetHoraApertura) applyTo(l *Local)     { l.HoraApertura = string(u) }
func (u SetHoraFinalizacion) applyTo(l *Local) { l.HoraFinalizacion = string(u) }
func (u SetGerenteNombre) applyTo(l *Local)    { manager(l).Nombre = string(u) }
func (u SetGerenteCorreo) applyTo(l *Local)    { manager(l).Correo = string(u) }
func (u SetGerenteContrasena) applyTo(l *Local) {
	manager(l).Contrasena = string(u)
}

// manager garante que o local tenha um sub-objeto gerente próprio (cópia) antes de alterá-lo.
func manager(l *Local) *Manager {
	if l.Gerente == nil {
		l.Gerente = &Manager{}
		return l.Gerente
	}
	m := *l.Gerente
	l.Gerente = &m
	return l.Gerente
}

// LocalPatch é o conjunto de alterações de uma edição. Cada caminho aparece no máximo uma vez.
type LocalPatch []LocalUpdate

// Set adiciona a alteração, substituindo outra com o mesmo caminho.
func (p LocalPatch) Set(u LocalUpdate) LocalPatch {
	key := PathKey(u)
	for i, existing := range p {
		if PathKey(existing) == key {
			p[i] = u
			return p
		}
	}
	return append(p, u)
}

// Empty informa se não há nada a atualizar.
func (p LocalPatch) Empty() bool { return len(p) == 0 }

// ManagerEmail devolve o correo de gerente pedido pela edição, se houver.
func (p LocalPatch) ManagerEmail() (string, bool) {
	for _, u := range p {
		if c, ok := u.(SetGerenteCorreo); ok {
			return string(c), true
		}
	}
	return "", false
}

// TouchesManager informa se algum campo do gerente é alterado.
func (p LocalPatch) TouchesManager() bool {
	for _, u := range p {
		if path := u.Path(); path[0] == "gerente" {
			return true
		}
	}
	return false
}

// WithManager troca todas as alterações do gerente pelo snapshot resolvido.
func (p LocalPatch) WithManager(m Manager) LocalPatch {
	out := make(LocalPatch, 0, len(p)+3)
	for _, u := range p {
		if u.Path()[0] != "gerente" {
			out = append(out, u)
		}
	}
	return append(out,
		SetGerenteNombre(m.Nombre),
		SetGerenteCorreo(m.Correo),
		SetGerenteContrasena(m.Contrasena),
	)
}

// ApplyTo devolve uma cópia do local com as alterações aplicadas.
func (p LocalPatch) ApplyTo(l Local) Local {
	for _, u := range p {
		u.applyTo(&l)
	}
	return l
}

// Attributes devolve o conjunto de atributos alterados, com o gerente aninhado.
func (p LocalPatch) Attributes() map[string]interface{} {
	attrs := make(map[string]interface{}, len(p))
	for _, u := range p {
		path := u.Path()
		if len(path) == 1 {
			attrs[path[0]] = u.Value()
			continue
		}
		nested, ok := attrs[path[0]].(map[string]interface{})
		if !ok {
			nested = map[string]interface{}{}
			attrs[path[0]] = nested
		}
		nested[path[1]] = u.Value()
	}
	return attrs
}

// PathKey é o caminho em notação de pontos, e.g. "gerente.correo".
func PathKey(u LocalUpdate) string {
	return strings.Join(u.Path(), ".")
}
