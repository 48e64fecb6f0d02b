package ledger

import (
	"encoding/json"

	"github.com/ntquang22298/study-chain/internal/apperr"
)

// MsgMalformed is reported when a successful envelope cannot be decoded.
const MsgMalformed = "Failed to parse data from blockchain"

// Decode interprets env as a record of type T. A failed envelope becomes a
// LedgerQueryFailed error carrying the ledger's own reason, or fallback when
// the ledger gave none. A null payload decodes to the zero value.
func Decode[T any](env Envelope, fallback string) (T, error) {
	var v T
	if !env.Success {
		return v, failure(env, fallback)
	}
	if err := json.Unmarshal(env.Msg.Payload(), &v); err != nil {
		return v, apperr.Wrap(err, apperr.MalformedLedgerData, MsgMalformed)
	}
	return v, nil
}

// Result interprets env as the outcome of an invoke. On success it returns
// the ledger's text, which may be empty.
func Result(env Envelope, fallback string) (string, error) {
	if !env.Success {
		return "", failure(env, fallback)
	}
	return env.Msg.Text(), nil
}

func failure(env Envelope, fallback string) error {
	if text := env.Msg.Text(); text != "" {
		return apperr.New(apperr.LedgerQueryFailed, text)
	}
	return apperr.New(apperr.LedgerQueryFailed, fallback)
}
