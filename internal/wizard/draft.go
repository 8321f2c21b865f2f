package wizard

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field names used in forms, signals and error reports.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldCompany     = "company"
	FieldProjectType = "project_type"
	FieldPackage     = "package"
	FieldBudget      = "budget"
	FieldTimeline    = "timeline"
	FieldMessage     = "message"
)

// Fields lists every draft field in form order.
var Fields = []string{
	FieldName, FieldEmail, FieldPhone, FieldCompany,
	FieldProjectType, FieldPackage,
	FieldBudget, FieldTimeline, FieldMessage,
}

var stepFields = map[Step][]string{
	Identity: {FieldName, FieldEmail, FieldPhone, FieldCompany},
	Project:  {FieldProjectType, FieldPackage},
	Scope:    {FieldBudget, FieldTimeline, FieldMessage},
}

var requiredFields = map[Step][]string{
	Identity: {FieldName, FieldEmail},
	Project:  {FieldProjectType},
	Scope:    {FieldBudget, FieldTimeline},
}

// maxLengths caps each field, in characters. The whole wizard travels in
// a session cookie, so a draft at these limits must still fit in one.
var maxLengths = map[string]int{
	FieldName:        80,
	FieldEmail:       120,
	FieldPhone:       30,
	FieldCompany:     100,
	FieldProjectType: 80,
	FieldPackage:     80,
	FieldBudget:      80,
	FieldTimeline:    80,
	FieldMessage:     1000,
}

// MaxLength returns the character limit of field, or 0 for unknown names.
func MaxLength(field string) int {
	return maxLengths[field]
}

// Draft is the in-progress quote request.
type Draft struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	ProjectType string `json:"project_type"`
	Package     string `json:"package"`
	Budget      string `json:"budget"`
	Timeline    string `json:"timeline"`
	Message     string `json:"message"`
}

func (d *Draft) field(name string) *string {
	switch name {
	case FieldName:
		return &d.Name
	case FieldEmail:
		return &d.Email
	case FieldPhone:
		return &d.Phone
	case FieldCompany:
		return &d.Company
	case FieldProjectType:
		return &d.ProjectType
	case FieldPackage:
		return &d.Package
	case FieldBudget:
		return &d.Budget
	case FieldTimeline:
		return &d.Timeline
	case FieldMessage:
		return &d.Message
	}
	return nil
}

// Get returns the value of a named field, or "" for unknown names.
func (d Draft) Get(name string) string {
	if p := d.field(name); p != nil {
		return *p
	}
	return ""
}

// Set assigns a trimmed value to a named field. It reports false for unknown names.
func (d *Draft) Set(name, value string) bool {
	p := d.field(name)
	if p == nil {
		return false
	}
	*p = strings.TrimSpace(value)
	return true
}

// IsZero reports whether every field is empty.
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// Problems returns field -> reason for the given step: empty required
// fields, over-long fields, and a malformed email address on the identity
// step.
func (d Draft) Problems(step Step) map[string]string {
	problems := d.lengthProblems(step)
	for _, name := range requiredFields[step] {
		if d.Get(name) == "" {
			problems[name] = "required"
		}
	}
	if step == Identity && d.Email != "" {
		if _, ok := problems[FieldEmail]; !ok && !validEmail(d.Email) {
			problems[FieldEmail] = "invalid email address"
		}
	}
	return problems
}

// lengthProblems reports the fields of step that exceed their limit.
func (d Draft) lengthProblems(step Step) map[string]string {
	problems := make(map[string]string)
	for _, name := range stepFields[step] {
		if limit := maxLengths[name]; utf8.RuneCountInString(d.Get(name)) > limit {
			problems[name] = fmt.Sprintf("too long (max %d characters)", limit)
		}
	}
	return problems
}

// validEmail accepts a bare address only. Display-name forms such as
// "Thandi <t@example.com>" parse but are not an address on their own.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

// StepFields returns the field names collected on step.
func StepFields(step Step) []string {
	return stepFields[step]
}

// Required reports whether field must be filled before leaving its step.
func Required(field string) bool {
	for _, names := range requiredFields {
		for _, n := range names {
			if n == field {
				return true
			}
		}
	}
	return false
}
