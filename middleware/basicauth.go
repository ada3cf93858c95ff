package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

const authChallenge = `Basic realm="Restricted"`

type Account struct {
	Username string
	Password string
}

// BasicAuth lets requests carrying valid credentials continue the chain.
// Anything else is answered here: 401 with a challenge when credentials are
// missing or wrong, 400 when the header cannot be decoded.
func BasicAuth(accounts []Account) eventware.Handler {
	accountMap := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		accountMap[acc.Username] = acc.Password
	}

	return func(req *request.Request, res *response.Response, radio *eventware.Radio) {
		auth := req.Headers.Get("authorization")
		encoded, ok := strings.CutPrefix(auth, "Basic ")
		if !ok {
			unauthorized(res)
			radio.Done()
			return
		}

		payload, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			badAuthorization(res)
			radio.Done()
			return
		}

		user, pass, ok := strings.Cut(string(payload), ":")
		if !ok {
			badAuthorization(res)
			radio.Done()
			return
		}

		actualPass, found := accountMap[user]
		if !found || subtle.ConstantTimeCompare([]byte(actualPass), []byte(pass)) != 1 {
			unauthorized(res)
			radio.Done()
			return
		}

		radio.Ok()
	}
}

func unauthorized(res *response.Response) {
	res.WithStatusCode(response.StatusUnauthorized).
		WithHeader("www-authenticate", authChallenge)
}

func badAuthorization(res *response.Response) {
	res.WithStatusCode(response.StatusBadRequest).
		WithBody("Invalid authorization header")
}
