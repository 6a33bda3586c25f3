package portfolio

import (
	"strings"
	"unicode/utf8"
)

const (
	maxShortLen  = 200
	maxTextLen   = 5000
	maxListItems = 50
	maxItemLen   = 500
)

// Validate turns a decoded JSON body into a PortfolioRequest. Every failure is
// a *ValidationError naming the field. Strings are trimmed; blank list
// elements are dropped; non-string list elements are rejected.
func Validate(raw any) (PortfolioRequest, error) {
	body, ok := raw.(map[string]any)
	if !ok {
		return PortfolioRequest{}, invalid("body", "must be a JSON object")
	}

	var req PortfolioRequest
	var err error
	if req.Name, err = requiredString(body, "name", maxShortLen); err != nil {
		return PortfolioRequest{}, err
	}
	if req.Profession, err = requiredString(body, "profession", maxShortLen); err != nil {
		return PortfolioRequest{}, err
	}
	if req.Experience, err = requiredString(body, "experience", maxTextLen); err != nil {
		return PortfolioRequest{}, err
	}
	if req.Skills, err = stringList(body, "skills"); err != nil {
		return PortfolioRequest{}, err
	}
	if req.Projects, err = stringList(body, "projects"); err != nil {
		return PortfolioRequest{}, err
	}
	if req.Education, err = optionalString(body, "education", maxTextLen); err != nil {
		return PortfolioRequest{}, err
	}
	if req.TemplateID, err = optionalString(body, "template_id", maxShortLen); err != nil {
		return PortfolioRequest{}, err
	}
	if req.Contact, err = contact(body); err != nil {
		return PortfolioRequest{}, err
	}
	return req, nil
}

func requiredString(body map[string]any, field string, limit int) (string, error) {
	v, present := body[field]
	if !present || v == nil {
		return "", invalid(field, "is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(field, "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(field, "is required")
	}
	if utf8.RuneCountInString(s) > limit {
		return "", invalid(field, "must be at most %d characters", limit)
	}
	return s, nil
}

func optionalString(body map[string]any, field string, limit int) (string, error) {
	v, present := body[field]
	if !present || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(field, "must be a string")
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > limit {
		return "", invalid(field, "must be at most %d characters", limit)
	}
	return s, nil
}

func stringList(body map[string]any, field string) ([]string, error) {
	v, present := body[field]
	if !present || v == nil {
		return []string{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, invalid(field, "must be a list of strings")
	}
	if len(items) > maxListItems {
		return nil, invalid(field, "must have at most %d entries", maxListItems)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invalid(field, "must be a list of strings (entry %d is not a string)", i)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if utf8.RuneCountInString(s) > maxItemLen {
			return nil, invalid(field, "entries must be at most %d characters", maxItemLen)
		}
		out = append(out, s)
	}
	return out, nil
}

func contact(body map[string]any) (Contact, error) {
	v, present := body["contact"]
	if !present || v == nil {
		return Contact{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Contact{}, invalid("contact", "must be an object")
	}
	var c Contact
	fields := []struct {
		key string
		dst *string
	}{
		{"email", &c.Email},
		{"phone", &c.Phone},
		{"linkedin", &c.LinkedIn},
		{"github", &c.GitHub},
		{"website", &c.Website},
	}
	for _, f := range fields {
		s, err := optionalString(m, f.key, maxShortLen)
		if err != nil {
			return Contact{}, invalid("contact."+f.key, "must be a string")
		}
		*f.dst = s
	}
	return c, nil
}
