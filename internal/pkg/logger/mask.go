package logger

import "strings"

const masked = "***"

var secretKeys = map[string]struct{}{
	"contrasena": {},
	"password":   {},
}

// Mask devolve uma cópia do valor JSON decodificado com os segredos trocados por "***".
// Mapas e listas são percorridos em profundidade; o valor original não é alterado.
func Mask(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if _, secret := secretKeys[strings.ToLower(k)]; secret && val != nil {
				out[k] = masked
				continue
			}
			out[k] = Mask(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Mask(val)
		}
		return out
	default:
		return v
	}
}
