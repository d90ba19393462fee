package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		FieldAge:        "30",
		FieldGender:     "female",
		FieldCaste:      "x",
		FieldDistrict:   "y",
		FieldIncome:     "40000",
		FieldOccupation: "z",
		FieldLocation:   "w",
	}
}

func TestValidateAcceptsValidForm(t *testing.T) {
	form := validForm()
	form[FieldHKQuota] = "yes"

	applicant, err := Validate(form)
	require.NoError(t, err)
	assert.Equal(t, Applicant{
		Age:        30,
		Income:     40000,
		Gender:     "female",
		Caste:      "x",
		District:   "y",
		Occupation: "z",
		Location:   "w",
		HKQuota:    "yes",
	}, applicant)
}

func TestValidateAge(t *testing.T) {
	cases := []struct {
		age     string
		message string
	}{
		{"", "Age is a required field."},
		{"abc", "Invalid age value. Please enter a number."},
		{"30.5", "Invalid age value. Please enter a number."},
		{"-1", "Age must be between 0 and 150."},
		{"151", "Age must be between 0 and 150."},
		{"99999999999999999999999", "Invalid age value. Please enter a number."},
	}

	for _, tc := range cases {
		t.Run(tc.age, func(t *testing.T) {
			form := validForm()
			form[FieldAge] = tc.age

			_, err := Validate(form)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, FieldAge, verr.Field)
			assert.Equal(t, tc.message, verr.Message)
		})
	}
}

func TestValidateAgeBounds(t *testing.T) {
	for _, age := range []string{"0", "150", " 42 "} {
		form := validForm()
		form[FieldAge] = age
		_, err := Validate(form)
		assert.NoError(t, err, "age %q", age)
	}
}

func TestValidateIncome(t *testing.T) {
	cases := []struct {
		income  string
		message string
	}{
		{"", "Annual Income is a required field."},
		{"lots", "Invalid annual income value. Please select a valid range."},
		{"-5", "Annual Income cannot be negative."},
	}

	for _, tc := range cases {
		t.Run(tc.income, func(t *testing.T) {
			form := validForm()
			form[FieldIncome] = tc.income

			_, err := Validate(form)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, FieldIncome, verr.Field)
			assert.Equal(t, tc.message, verr.Message)
		})
	}

	form := validForm()
	form[FieldIncome] = "0"
	_, err := Validate(form)
	assert.NoError(t, err)
}

func TestValidateRequiredFieldsInOrder(t *testing.T) {
	form := validForm()
	delete(form, FieldDistrict)
	form[FieldLocation] = ""

	_, err := Validate(form)
	require.EqualError(t, err, "Missing required field: District.")

	form[FieldDistrict] = "y"
	_, err = Validate(form)
	require.EqualError(t, err, "Missing required field: Location.")
}

func TestValidateShortCircuitsOnAge(t *testing.T) {
	_, err := Validate(Form{FieldAge: "200"})
	require.EqualError(t, err, "Age must be between 0 and 150.")
}

func TestValidateHKQuotaIsOptional(t *testing.T) {
	applicant, err := Validate(validForm())
	require.NoError(t, err)
	assert.Empty(t, applicant.HKQuota)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Occupation", displayName("occupation"))
	assert.Equal(t, "Hk Quota", displayName("hk_quota"))
}

func TestApplicantVarsLowercase(t *testing.T) {
	applicant := Applicant{Age: 40, Income: 1000, Gender: "Female", HKQuota: "YES"}
	vars := applicant.Vars()["applicant"].(map[string]interface{})
	assert.Equal(t, int64(40), vars[FieldAge])
	assert.Equal(t, "female", vars[FieldGender])
	assert.Equal(t, "yes", vars[FieldHKQuota])
}
