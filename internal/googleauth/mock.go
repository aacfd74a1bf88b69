package googleauth

import "context"

// MockVerifier permite tests sin llamar a Google.
type MockVerifier struct {
	Payload Payload
	Err     error
}

func (m *MockVerifier) VerifyIDToken(ctx context.Context, idToken string) (Payload, error) {
	return m.Payload, m.Err
}
