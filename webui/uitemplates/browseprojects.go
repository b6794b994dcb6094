package uitemplates

import "html/template"

type BrowseProjectsParams struct {
	ActiveUser ActiveUserParams

	// Echoed filter values.
	Category     string
	Technologies string
	Location     string
	Status       string
	Skills       string
	HasFunding   bool
	RemoteOnly   bool
	Query        string

	Projects []*ProjectCardParams
}

var browseProjectsText = `{{define "title"}}Browse Projects{{end}}

{{define "content"}}
<h1>Browse Projects</h1>

<form method="GET" action="/browse-projects" class="row g-3 mb-4">
  <div class="col-md-4">
    <label for="q" class="form-label">Search</label>
    <input id="q" type="text" name="q" value="{{.Query}}" class="form-control" placeholder="Title, description, technology...">
  </div>
  <div class="col-md-4">
    <label for="category" class="form-label">Category</label>
    <input id="category" type="text" name="category" value="{{.Category}}" class="form-control">
  </div>
  <div class="col-md-4">
    <label for="technologies" class="form-label">Technologies</label>
    <input id="technologies" type="text" name="technologies" value="{{.Technologies}}" class="form-control" placeholder="Comma separated">
  </div>
  <div class="col-md-4">
    <label for="location" class="form-label">Location</label>
    <input id="location" type="text" name="location" value="{{.Location}}" class="form-control" placeholder="City or country">
  </div>
  <div class="col-md-4">
    <label for="status" class="form-label">Status</label>
    <select id="status" name="status" class="form-select">
      <option value="" {{if not .Status}}selected{{end}}>Any</option>
      <option value="active" {{if eq .Status "active"}}selected{{end}}>Active</option>
      <option value="completed" {{if eq .Status "completed"}}selected{{end}}>Completed</option>
      <option value="archived" {{if eq .Status "archived"}}selected{{end}}>Archived</option>
    </select>
  </div>
  <div class="col-md-4">
    <label for="skills" class="form-label">Skills</label>
    <input id="skills" type="text" name="skills" value="{{.Skills}}" class="form-control" placeholder="Comma separated">
  </div>
  <div class="col-md-4 form-check">
    <input id="has-funding" type="checkbox" name="has-funding" class="form-check-input" {{if .HasFunding}}checked{{end}}>
    <label for="has-funding" class="form-check-label">Has funding</label>
  </div>
  <div class="col-md-4 form-check">
    <input id="remote-only" type="checkbox" name="remote-only" class="form-check-input" {{if .RemoteOnly}}checked{{end}}>
    <label for="remote-only" class="form-check-label">Remote only</label>
  </div>
  <div class="col-12">
    <button type="submit" class="btn btn-primary">Filter</button>
    <a href="/browse-projects" class="btn btn-outline-secondary">Clear</a>
  </div>
</form>

{{if .Projects}}
{{template "project-cards" .Projects}}
{{else}}
<p>No projects matched.</p>
{{end}}
{{end}}
`

var BrowseProjectsTemplate = template.Must(template.Must(template.Must(template.New("base").Parse(baseText)).Parse(projectCardsText)).Parse(browseProjectsText))
