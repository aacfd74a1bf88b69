package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrTokenRejected = errors.New("google token rejected")
	ErrWrongAudience = errors.New("google token audience mismatch")
)

// HTTPVerifier implementa Verifier contra el endpoint tokeninfo de Google.
type HTTPVerifier struct {
	baseURL  string
	clientID string
	client   *http.Client
}

// NewHTTPVerifier construye un verificador para el client id dado.
func NewHTTPVerifier(clientID string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL:  "https://oauth2.googleapis.com/tokeninfo",
		clientID: clientID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfoResponse struct {
	Aud     string `json:"aud"`
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (v *HTTPVerifier) VerifyIDToken(ctx context.Context, idToken string) (Payload, error) {
	if strings.TrimSpace(idToken) == "" {
		return Payload{}, ErrTokenRejected
	}

	endpoint := v.baseURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Payload{}, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Payload{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Payload{}, fmt.Errorf("%w: status %d", ErrTokenRejected, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Payload{}, err
	}
	var info tokenInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return Payload{}, err
	}
	if v.clientID != "" && info.Aud != v.clientID {
		return Payload{}, ErrWrongAudience
	}

	return Payload{
		Email:   info.Email,
		Subject: info.Sub,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
