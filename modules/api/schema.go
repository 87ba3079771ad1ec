package api

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// fieldRule declares the expectations for one request body field.
type fieldRule struct {
	name     string
	required bool
	maxLen   int
}

// bodySchema is a declarative description of a request body: a set of
// field rules evaluated once per request, producing a structured list
// of violations instead of ad hoc type checks.
type bodySchema struct {
	rules []fieldRule
}

var (
	loginSchema = bodySchema{rules: []fieldRule{
		{name: "username", required: true, maxLen: 100},
		{name: "password", required: true, maxLen: 100},
	}}

	createTaskSchema = bodySchema{rules: []fieldRule{
		{name: "title", required: true, maxLen: 100},
		{name: "description", maxLen: 500},
	}}

	updateStatusSchema = bodySchema{rules: []fieldRule{
		{name: "status", required: true, maxLen: 20},
	}}

	updateFieldsSchema = bodySchema{rules: []fieldRule{
		{name: "title", required: true, maxLen: 100},
		{name: "description", maxLen: 500},
	}}
)

// validate checks a raw JSON body against the schema. It returns the
// decoded fields and the list of violations; an unparseable body is a
// single violation.
func (s bodySchema) validate(body []byte) (map[string]string, []string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, []string{"request body must be a JSON object"}
	}

	fields := make(map[string]string, len(s.rules))
	var violations []string

	for _, rule := range s.rules {
		value, present := raw[rule.name]
		if !present || string(value) == "null" {
			if rule.required {
				violations = append(violations, fmt.Sprintf("%s is required", rule.name))
			}
			continue
		}

		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			violations = append(violations, fmt.Sprintf("%s must be a string", rule.name))
			continue
		}

		if rule.maxLen > 0 && utf8.RuneCountInString(str) > rule.maxLen {
			violations = append(violations, fmt.Sprintf("%s must be at most %d characters", rule.name, rule.maxLen))
			continue
		}

		fields[rule.name] = str
	}

	return fields, violations
}

// stringField returns the decoded field value, or "" when absent.
func stringField(fields map[string]string, name string) string {
	return fields[name]
}

// optionalField returns a pointer to the decoded field value, or nil
// when the field was absent from the body.
func optionalField(fields map[string]string, name string) *string {
	value, ok := fields[name]
	if !ok {
		return nil
	}
	return &value
}
