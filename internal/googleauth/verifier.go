package googleauth

import "context"

// Payload son los campos del perfil extraídos de un id token válido.
type Payload struct {
	Email   string
	Subject string
	Name    string
	Picture string
}

// Verifier define la interfaz para validar id tokens de Google.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (Payload, error)
}
