package dbtypes

// TeamRole is the normalized shape of a team requirement.  Stored roles come
// in two shapes: a bare string (legacy, name only) or a structured map with
// responsibilities, skills, and contributions.  NormalizeRole folds both into
// this one.
type TeamRole struct {
	ID               string
	Name             string
	Responsibilities []string
	Skills           []string
	Contributions    []string
}

// NormalizeRole converts a stored role value into a TeamRole.  A bare string
// becomes a role with that name and empty lists; a decoded map is read field
// by field.  Anything else yields an empty role.
func NormalizeRole(v any) TeamRole {
	switch r := v.(type) {
	case string:
		return TeamRole{Name: r}
	case TeamRole:
		return r
	case *TeamRole:
		return *r
	case map[string]any:
		return TeamRole{
			ID:               stringField(r, "id"),
			Name:             stringField(r, "name"),
			Responsibilities: stringListField(r, "responsibilities"),
			Skills:           stringListField(r, "skills"),
			Contributions:    stringListField(r, "contributions"),
		}
	}
	return TeamRole{}
}

// NormalizedRoles returns every role of the block in the structured shape.
func (p *PeopleNeeded) NormalizedRoles() []TeamRole {
	if p == nil {
		return nil
	}
	roles := make([]TeamRole, 0, len(p.Roles))
	for _, r := range p.Roles {
		roles = append(roles, NormalizeRole(r))
	}
	return roles
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringListField(m map[string]any, key string) []string {
	vs, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
