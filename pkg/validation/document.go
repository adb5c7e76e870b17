// Package validation provides document validation with
// go-playground/validator integration
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/internal/core/schema"
)

// Validate is the main validator instance with custom validations
// registered.
var Validate *validator.Validate

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func init() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("node_id", validateNodeID)
	_ = Validate.RegisterValidation("node_kind", validateNodeKind)
	_ = Validate.RegisterValidation("field_type", validateFieldType)
	_ = Validate.RegisterValidation("rule_kind", validateRuleKind)

	// Use JSON tags for field names in error messages
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

func validateNodeID(fl validator.FieldLevel) bool {
	return idPattern.MatchString(fl.Field().String())
}

func validateNodeKind(fl validator.FieldLevel) bool {
	return flow.NodeKind(fl.Field().String()).IsValid()
}

func validateFieldType(fl validator.FieldLevel) bool {
	return schema.FieldType(fl.Field().String()).IsValid()
}

func validateRuleKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "direct", "constant", "expression", "concatenate", "split":
		return true
	}
	return false
}

// ValidateFlowDocument validates a persisted flow document: struct tags
// first, then cross-field rules. Malformed persisted documents are the
// one failure in this system that is allowed to be fatal to a load.
func ValidateFlowDocument(doc *FlowDocument) error {
	if doc == nil {
		return fmt.Errorf("flow document is nil")
	}
	if err := Validate.Struct(doc); err != nil {
		return formatValidationErrors(err)
	}
	return doc.Validate()
}

// formatValidationErrors converts validator errors into the package's
// error type.
func formatValidationErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var out ValidationErrors
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Message: fmt.Sprintf("failed %q validation", fe.Tag()),
		})
	}
	return out
}
