package eligibility

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Form field names
const (
	FieldAge        = "age"
	FieldGender     = "gender"
	FieldCaste      = "caste"
	FieldDistrict   = "district"
	FieldIncome     = "income"
	FieldOccupation = "occupation"
	FieldHKQuota    = "hk_quota"
	FieldLocation   = "location"
)

// requiredFields are checked in order after age and income
var requiredFields = []string{FieldGender, FieldCaste, FieldDistrict, FieldOccupation, FieldLocation}

// FormFields lists every field read from a submitted form
var FormFields = []string{
	FieldAge, FieldGender, FieldCaste, FieldDistrict, FieldIncome, FieldOccupation, FieldHKQuota, FieldLocation,
}

const (
	minAge = 0
	maxAge = 150
)

// Form holds raw submitted values keyed by field name
type Form map[string]string

// Applicant is a validated form
type Applicant struct {
	Age        int64
	Income     int64
	Gender     string
	Caste      string
	District   string
	Occupation string
	Location   string
	HKQuota    string
}

// Vars returns the applicant as CEL variables with lowercased strings
func (a Applicant) Vars() map[string]interface{} {
	return map[string]interface{}{
		"applicant": map[string]interface{}{
			FieldAge:        a.Age,
			FieldIncome:     a.Income,
			FieldGender:     strings.ToLower(a.Gender),
			FieldCaste:      strings.ToLower(a.Caste),
			FieldDistrict:   strings.ToLower(a.District),
			FieldOccupation: strings.ToLower(a.Occupation),
			FieldLocation:   strings.ToLower(a.Location),
			FieldHKQuota:    strings.ToLower(a.HKQuota),
		},
	}
}

// ValidationError is a user-correctable problem with the submitted form
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Validate checks the form and parses it into an Applicant. Only the first failure is reported.
func Validate(form Form) (applicant Applicant, err error) {
	defer func() {
		if r := recover(); r != nil {
			applicant = Applicant{}
			err = invalid("", fmt.Sprintf("An unexpected error occurred during input validation: %v", r))
		}
	}()

	age, verr := parseAge(form[FieldAge])
	if verr != nil {
		return Applicant{}, verr
	}

	income, verr := parseIncome(form[FieldIncome])
	if verr != nil {
		return Applicant{}, verr
	}

	for _, field := range requiredFields {
		if form[field] == "" {
			return Applicant{}, invalid(field, fmt.Sprintf("Missing required field: %s.", displayName(field)))
		}
	}

	return Applicant{
		Age:        age,
		Income:     income,
		Gender:     form[FieldGender],
		Caste:      form[FieldCaste],
		District:   form[FieldDistrict],
		Occupation: form[FieldOccupation],
		Location:   form[FieldLocation],
		HKQuota:    form[FieldHKQuota],
	}, nil
}

func parseAge(raw string) (int64, *ValidationError) {
	if raw == "" {
		return 0, invalid(FieldAge, "Age is a required field.")
	}

	age, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, invalid(FieldAge, "Invalid age value. Please enter a number.")
	}

	if age < minAge || age > maxAge {
		return 0, invalid(FieldAge, fmt.Sprintf("Age must be between %d and %d.", minAge, maxAge))
	}

	return age, nil
}

func parseIncome(raw string) (int64, *ValidationError) {
	if raw == "" {
		return 0, invalid(FieldIncome, "Annual Income is a required field.")
	}

	income, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, invalid(FieldIncome, "Invalid annual income value. Please select a valid range.")
	}

	if income < 0 {
		return 0, invalid(FieldIncome, "Annual Income cannot be negative.")
	}

	return income, nil
}

// displayName turns a field name like "hk_quota" into "Hk Quota"
func displayName(field string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}
