package service

import (
	"regexp"
	"strings"

	"outreach/internal/models"
)

// TemplateService renders message templates against a flat variable map.
// Placeholders use the {snake_case} form. Rendering is deterministic,
// total and side-effect free: unknown placeholders become the empty
// string, never the raw token.
type TemplateService struct{}

// NewTemplateService creates a new template service
func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Render substitutes every {placeholder} in the template body with its
// value from vars. Missing variables substitute to "".
func (s *TemplateService) Render(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := strings.Trim(token, "{}")
		return vars[name]
	})
}

// Placeholders extracts all placeholder names from a template
func (s *TemplateService) Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Vars builds the variable map for one lead within one campaign: the
// standard contact fields plus the lead's free-form attributes. Attribute
// keys never shadow the standard fields.
func (s *TemplateService) Vars(lead *models.Lead, campaign *models.Campaign) map[string]string {
	vars := make(map[string]string, len(lead.Attributes)+6)

	for k, v := range lead.Attributes {
		vars[k] = v
	}

	if lead.FirstName != nil {
		vars["first_name"] = *lead.FirstName
	} else {
		vars["first_name"] = ""
	}
	if lead.LastName != nil {
		vars["last_name"] = *lead.LastName
	} else {
		vars["last_name"] = ""
	}
	vars["full_name"] = lead.FullName()
	vars["phone"] = lead.Phone
	vars["email"] = lead.Email
	vars["campaign_name"] = campaign.Name

	return vars
}
