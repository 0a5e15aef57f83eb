// Package authroles maps identity-provider claims onto application roles.
package authroles

import (
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
)

// ClaimsMapper extracts a role from ID token claims with a JMESPath
// expression. The expression may yield a single string or a list of strings;
// the first value that parses as a known role wins. Legacy "ROLE_"-prefixed
// spellings are accepted.
type ClaimsMapper struct {
	expr string
}

// NewClaimsMapper compiles the expression up front so configuration errors
// surface at startup rather than on first login.
func NewClaimsMapper(expr string) (*ClaimsMapper, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("role claim expression is empty")
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile role claim expression: %w", err)
	}
	return &ClaimsMapper{expr: expr}, nil
}

// Map implements ports.RoleMapper. It returns false when the claims do not
// determine a role, leaving the decision to the persisted record.
func (m *ClaimsMapper) Map(claims map[string]any) (domainauth.Role, bool) {
	if len(claims) == 0 {
		return "", false
	}

	result, err := jmespath.Search(m.expr, claims)
	if err != nil {
		return "", false
	}

	switch v := result.(type) {
	case string:
		if role, ok := domainauth.ParseRole(v); ok {
			return role, true
		}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if role, parsed := domainauth.ParseRole(s); parsed {
				return role, true
			}
		}
	}
	return "", false
}
