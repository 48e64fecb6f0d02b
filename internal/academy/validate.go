package academy

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/ntquang22298/study-chain/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkStruct runs the `validate` tags of v and reports the first failing
// field, in declaration order, with the message registered for it.
func checkStruct(v any, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return errors.Wrap(err, "failed to validate input")
	}
	msg, ok := messages[fields[0].Field()]
	if !ok {
		msg = fields[0].Error()
	}
	return apperr.Wrap(err, apperr.InvalidInput, msg)
}

// required rejects a blank identifier with msg.
func required(value, msg string) error {
	if err := validate.Var(value, "required"); err != nil {
		return apperr.Wrap(err, apperr.InvalidInput, msg)
	}
	return nil
}
