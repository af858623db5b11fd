package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// requestTimeout bounds every store round trip from the handler edge.
const requestTimeout = 10 * time.Second

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// validationMessages flattens validator failures into the field->message map
// carried on 400 responses.
func validationMessages(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["request"] = "Invalid request payload"
		return out
	}

	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = fieldMessage(field, e)
	}
	return out
}

func fieldMessage(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required", field)
	case "email":
		return "email is invalid"
	case "url":
		return fmt.Sprintf("%s is not a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
