package dblayer

import (
	"context"
	"strings"

	"bezaspace/dbtypes"
)

// SearchProjects fetches the whole project collection and filters it in
// application memory.  All present filters intersect.  Fine at the current
// data volume; pushing the equality filters into the query layer is the known
// upgrade path if the collection grows.
func (db *DB) SearchProjects(ctx context.Context, filters *dbtypes.ProjectSearchFilters) ([]*dbtypes.Project, error) {
	projects, err := db.GetAllProjects(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProjects(projects, filters), nil
}

// FilterProjects returns the projects matching every present filter,
// preserving input order.
func FilterProjects(projects []*dbtypes.Project, filters *dbtypes.ProjectSearchFilters) []*dbtypes.Project {
	if filters == nil || filters.IsZero() {
		return projects
	}

	matched := make([]*dbtypes.Project, 0, len(projects))
	for _, p := range projects {
		if MatchesFilters(p, filters) {
			matched = append(matched, p)
		}
	}
	return matched
}

// MatchesFilters evaluates every present filter against one project.
func MatchesFilters(p *dbtypes.Project, f *dbtypes.ProjectSearchFilters) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}

	if len(f.Technologies) > 0 && !anyTechMatches(p.Technologies, f.Technologies) {
		return false
	}

	if f.Location != "" && !locationMatches(p.Location, f.Location) {
		return false
	}

	if f.Status != "" && p.Status != f.Status {
		return false
	}

	if len(f.Skills) > 0 && !anySkillMatches(p.PeopleNeeded, f.Skills) {
		return false
	}

	if f.HasFunding && !hasFundingResource(p.Resources) {
		return false
	}

	if f.RemoteOnly && (p.Location == nil || p.Location.Type != dbtypes.LocationTypeRemote) {
		return false
	}

	if f.Query != "" && !freeTextMatches(p, f.Query) {
		return false
	}

	return true
}

// anyTechMatches: any filter technology substring-matches any project
// technology, case-insensitively.
func anyTechMatches(projectTechs, filterTechs []string) bool {
	for _, ft := range filterTechs {
		for _, pt := range projectTechs {
			if containsFold(pt, ft) {
				return true
			}
		}
	}
	return false
}

// locationMatches: the filter text substring-matches the city or the
// country, case-insensitively.
func locationMatches(loc *dbtypes.Location, filter string) bool {
	if loc == nil {
		return false
	}
	return containsFold(loc.City, filter) || containsFold(loc.Country, filter)
}

// anySkillMatches: any filter skill substring-matches any skill of any team
// role.  Legacy string roles normalize to a name with no skills, so they
// never match here, but they do not break the scan either.
func anySkillMatches(people *dbtypes.PeopleNeeded, filterSkills []string) bool {
	for _, role := range people.NormalizedRoles() {
		for _, rs := range role.Skills {
			for _, fs := range filterSkills {
				if containsFold(rs, fs) {
					return true
				}
			}
		}
	}
	return false
}

func hasFundingResource(resources []*dbtypes.Resource) bool {
	for _, r := range resources {
		if r.Type == dbtypes.ResourceTypeFunding {
			return true
		}
	}
	return false
}

// freeTextMatches: the query substring-matches the title, the description,
// any technology, any goal, or any outcome, case-insensitively.
func freeTextMatches(p *dbtypes.Project, query string) bool {
	if containsFold(p.Title, query) || containsFold(p.Description, query) {
		return true
	}
	for _, t := range p.Technologies {
		if containsFold(t, query) {
			return true
		}
	}
	for _, g := range p.Goals {
		if containsFold(g, query) {
			return true
		}
	}
	for _, o := range p.Outcomes {
		if containsFold(o, query) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
