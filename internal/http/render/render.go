// Package render holds the request decoding and response helpers shared by
// the API handlers.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/deposit"
	"github.com/MrJamesThe3rd/recette/internal/importer"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
	"github.com/MrJamesThe3rd/recette/internal/photo"
	"github.com/MrJamesThe3rd/recette/internal/reference"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Let numeric tags (gte, gt) apply to decimal amounts.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}

		return nil
	}, decimal.Decimal{})

	// "day" accepts YYYY-MM-DD keys.
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		_, err := datekey.Parse(fl.Field().String())
		return err == nil
	})

	return v
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON body into v and validates it. It writes the error
// response itself and reports false when the request cannot proceed.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return false
		}

		JSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": ValidationErrors(verrs)})

		return false
	}

	return true
}

// ValidationErrors maps each failing field to the tag it failed.
func ValidationErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}

	return out
}

var statusOf = []struct {
	err    error
	status int
}{
	{daily.ErrNotFound, http.StatusNotFound},
	{invoice.ErrNotFound, http.StatusNotFound},
	{payroll.ErrNotFound, http.StatusNotFound},
	{deposit.ErrNotFound, http.StatusNotFound},
	{reference.ErrNotFound, http.StatusNotFound},
	{photo.ErrNotFound, http.StatusNotFound},
	{auth.ErrNotFound, http.StatusNotFound},
	{daily.ErrLocked, http.StatusForbidden},
	{invoice.ErrInvalidStatus, http.StatusConflict},
	{reference.ErrConflict, http.StatusConflict},
	{payroll.ErrConflict, http.StatusConflict},
	{auth.ErrUserExists, http.StatusConflict},
	{payroll.ErrUnknownKind, http.StatusUnprocessableEntity},
	{reference.ErrUnknownKind, http.StatusUnprocessableEntity},
	{reference.ErrEmptyName, http.StatusUnprocessableEntity},
	{importer.ErrUnknownFormat, http.StatusUnprocessableEntity},
	{photo.ErrUnsupportedImage, http.StatusUnprocessableEntity},
	{auth.ErrUnknownRole, http.StatusUnprocessableEntity},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
}

// Error writes the status matching a domain error. Unknown errors are logged
// and reported as 500 without their text.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	for _, s := range statusOf {
		if errors.Is(err, s.err) {
			http.Error(w, err.Error(), s.status)
			return
		}
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// Range reads the start and end day keys of the query string. end defaults
// to start. A month=YYYY-MM parameter covers that whole month and takes
// precedence over start and end.
func Range(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	q := r.URL.Query()

	if month := strings.TrimSpace(q.Get("month")); month != "" {
		start, end, err := datekey.ParseMonth(month)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return "", "", false
		}

		return start, end, true
	}

	start := strings.TrimSpace(q.Get("start"))
	end := strings.TrimSpace(q.Get("end"))

	if end == "" {
		end = start
	}

	for _, key := range []string{start, end} {
		if _, err := datekey.Parse(key); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return "", "", false
		}
	}

	return start, end, true
}
