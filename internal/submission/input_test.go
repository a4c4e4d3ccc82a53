package submission

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boundaryCase struct {
	field string
	value string
	valid bool
}

// lengthCases covers min-1, min, max and max+1 for a length-bounded field.
func lengthCases(field string, min, max int) []boundaryCase {
	cases := []boundaryCase{
		{field, strings.Repeat("a", min), true},
		{field, strings.Repeat("a", max), true},
		{field, strings.Repeat("a", max+1), false},
	}
	if min > 0 {
		cases = append(cases, boundaryCase{field, strings.Repeat("a", min-1), false})
	}
	return cases
}

func checkBoundary(t *testing.T, tc boundaryCase, err error) {
	t.Helper()
	if tc.valid {
		assert.NoError(t, err, "%s with %d chars", tc.field, len(tc.value))
		return
	}
	verr, ok := validation.AsError(err)
	require.True(t, ok, "%s with %d chars should fail", tc.field, len(tc.value))
	assert.True(t, verr.Has(tc.field), "%s with %d chars: %v", tc.field, len(tc.value), verr)
}

func TestContactInput_Bounds(t *testing.T) {
	var cases []boundaryCase
	cases = append(cases, lengthCases("name", 2, 100)...)
	cases = append(cases, lengthCases("subject", 5, 200)...)
	cases = append(cases, lengthCases("message", 10, 5000)...)
	cases = append(cases, lengthCases("phone", 0, 20)...)

	for _, tc := range cases {
		in := ContactInput{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Subject: "Billing question",
			Message: "Why is my bill higher this month?",
		}
		switch tc.field {
		case "name":
			in.Name = tc.value
		case "subject":
			in.Subject = tc.value
		case "message":
			in.Message = tc.value
		case "phone":
			in.Phone = &tc.value
		}
		in.normalize()
		checkBoundary(t, tc, validation.Struct(in))
	}
}

func TestServiceRequestInput_Bounds(t *testing.T) {
	var cases []boundaryCase
	cases = append(cases, lengthCases("name", 2, 100)...)
	cases = append(cases, lengthCases("phone", 7, 20)...)
	cases = append(cases, lengthCases("address", 10, 500)...)
	cases = append(cases, lengthCases("details", 10, 5000)...)
	cases = append(cases, lengthCases("accountNumber", 0, 50)...)

	for _, tc := range cases {
		in := ServiceRequestInput{
			Type:    models.ServiceRequestNewConnection,
			Name:    "Ravi Persaud",
			Email:   "ravi@example.com",
			Phone:   "592-555-0101",
			Address: "12 Main Street, Georgetown",
			Details: "New house needs a meter installed.",
		}
		switch tc.field {
		case "name":
			in.Name = tc.value
		case "phone":
			in.Phone = tc.value
		case "address":
			in.Address = tc.value
		case "details":
			in.Details = tc.value
		case "accountNumber":
			in.AccountNumber = &tc.value
		}
		in.normalize()
		checkBoundary(t, tc, validation.Struct(in))
	}
}

func TestOutageInput_Bounds(t *testing.T) {
	var cases []boundaryCase
	cases = append(cases, lengthCases("name", 2, 100)...)
	cases = append(cases, lengthCases("phone", 7, 20)...)
	cases = append(cases, lengthCases("address", 10, 500)...)
	cases = append(cases, lengthCases("affectedArea", 5, 200)...)
	cases = append(cases, lengthCases("description", 10, 2000)...)

	for _, tc := range cases {
		in := OutageInput{
			Name:         "Ravi Persaud",
			Phone:        "592-555-0101",
			Address:      "12 Main Street, Georgetown",
			AffectedArea: "Kitty",
			Description:  "No power on the whole street",
		}
		switch tc.field {
		case "name":
			in.Name = tc.value
		case "phone":
			in.Phone = tc.value
		case "address":
			in.Address = tc.value
		case "affectedArea":
			in.AffectedArea = tc.value
		case "description":
			in.Description = tc.value
		}
		in.normalize()
		checkBoundary(t, tc, validation.Struct(in))
	}
}

func TestOutageInput_HazardDefaultsToFalse(t *testing.T) {
	var in OutageInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Ravi Persaud",
		"phone": "592-555-0101",
		"address": "12 Main Street, Georgetown",
		"affectedArea": "Kitty",
		"description": "No power on the whole street"
	}`), &in))

	in.normalize()
	assert.NoError(t, validation.Struct(in))
	assert.False(t, in.HazardPresent)
}

func TestStreetlightInput_Bounds(t *testing.T) {
	var cases []boundaryCase
	cases = append(cases, lengthCases("reporterName", 2, 100)...)
	cases = append(cases, lengthCases("reporterPhone", 7, 20)...)
	cases = append(cases, lengthCases("location", 10, 500)...)
	cases = append(cases, lengthCases("poleNumber", 0, 50)...)
	cases = append(cases, lengthCases("additionalDetails", 0, 1000)...)

	for _, tc := range cases {
		in := StreetlightInput{
			ReporterName:  "Asha Singh",
			ReporterPhone: "592-555-0199",
			Location:      "Corner of Camp and Church Street",
			IssueType:     models.StreetlightNotWorking,
		}
		switch tc.field {
		case "reporterName":
			in.ReporterName = tc.value
		case "reporterPhone":
			in.ReporterPhone = tc.value
		case "location":
			in.Location = tc.value
		case "poleNumber":
			in.PoleNumber = &tc.value
		case "additionalDetails":
			in.AdditionalDetails = &tc.value
		}
		in.normalize()
		checkBoundary(t, tc, validation.Struct(in))
	}
}

func TestFeedbackInput_Bounds(t *testing.T) {
	cases := lengthCases("message", 10, 5000)
	cases = append(cases, lengthCases("name", 0, 100)...)

	for _, tc := range cases {
		in := FeedbackInput{
			Type:    models.FeedbackTypeSuggestion,
			Message: "Please publish outage maps.",
		}
		switch tc.field {
		case "message":
			in.Message = tc.value
		case "name":
			in.Name = &tc.value
		}
		in.normalize()
		checkBoundary(t, tc, validation.Struct(in))
	}
}
