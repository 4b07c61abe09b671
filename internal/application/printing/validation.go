package printing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared"
	infra "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/printing"
)

// FieldError is one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError lists every field of a request or payload that failed validation
type ValidationError struct {
	Code   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " failed " + f.Rule
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidator returns a validator that reports fields by their JSON or form names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	return v
}

// validateStruct runs v over s and converts failures into a ValidationError.
// prefix replaces the root struct name in reported field paths.
func validateStruct(v *validator.Validate, s any, code, prefix string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		fields[i] = FieldError{Field: path, Rule: fe.Tag(), Param: fe.Param()}
	}
	return &ValidationError{Code: code, Fields: fields}
}

// decodePayload decodes raw into the payload variant selected by docType and
// validates it
func decodePayload(v *validator.Validate, docType printing.DocType, raw json.RawMessage) (printing.DocumentPayload, error) {
	var payload printing.DocumentPayload
	switch docType {
	case printing.DocTypeReceipt:
		payload = &printing.Receipt{}
	case printing.DocTypeWorkoutProgram:
		payload = &printing.WorkoutProgram{}
	case printing.DocTypeNutritionProgram:
		payload = &printing.NutritionProgram{}
	case printing.DocTypeProgressReport:
		payload = &printing.ProgressReport{}
	default:
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Invalid document type: "+docType.String())
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, shared.NewDomainError(infra.ErrCodeInvalidPayload, "Payload is required")
	}
	if err := json.Unmarshal(trimmed, payload); err != nil {
		return nil, shared.NewDomainError(infra.ErrCodeInvalidPayload,
			fmt.Sprintf("Payload is not a valid %s: %v", docType.DisplayName(), err))
	}
	if err := validateStruct(v, payload, infra.ErrCodeInvalidPayload, "payload"); err != nil {
		return nil, err
	}
	return payload, nil
}
