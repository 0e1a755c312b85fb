package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// maxBodyBytes bounds request bodies; none of the checkout payloads come close.
const maxBodyBytes = 1 << 20

// DecodeJSON reads a JSON body into v and runs its validate tags. An empty
// body is allowed when allowEmpty is set and leaves v untouched.
func DecodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return Validate(v)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return Validate(v)
}

// Validate runs struct tag validation and flattens the result into one
// readable message.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
