package candidate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// percentageTolerance absorbs rounding in language breakdowns.
const percentageTolerance = 0.5

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the declared ranges of the résumé.
func (r *ResumeFacts) Validate() error {
	if r == nil {
		return &InputError{Field: "resume", Value: nil, Rule: "required"}
	}
	if math.IsNaN(r.TotalYearsExperience) {
		return &InputError{Field: "resume.total_years_experience", Value: r.TotalYearsExperience, Rule: "gte=0"}
	}
	return validateStruct("resume", r)
}

// Validate checks the declared ranges of the profile. Failed or absent
// profiles are never validated since their numbers are not used.
func (p *CodeHostingProfile) Validate() error {
	if !p.Available() {
		return nil
	}
	if err := validateStruct("code_hosting", p); err != nil {
		return err
	}

	var sum float64
	for _, lang := range p.Languages {
		sum += lang.Percentage
	}
	if sum > 100+percentageTolerance {
		return &InputError{
			Field: "code_hosting.languages",
			Value: sum,
			Rule:  fmt.Sprintf("percentages sum lte=%.1f", 100+percentageTolerance),
		}
	}

	return nil
}

// Validate checks the analysis scores. A nil analysis yields ErrMissingAnalysis.
func (a *SemanticAnalysis) Validate() error {
	if a == nil {
		return ErrMissingAnalysis
	}
	return validateStruct("analysis", a)
}

func validateStruct(section string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating %s: %w", section, err)
	}

	fe := verrs[0]
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}

	return &InputError{
		Field: fieldPath(section, fe.Namespace()),
		Value: fe.Value(),
		Rule:  rule,
	}
}

// fieldPath replaces the struct type name leading the namespace with section.
func fieldPath(section, namespace string) string {
	if idx := strings.Index(namespace, "."); idx != -1 {
		return section + namespace[idx:]
	}
	return section
}
