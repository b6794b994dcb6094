package uitemplates

import "html/template"

type CreateProjectParams struct {
	ActiveUser ActiveUserParams
	Step       int
	UserError  string

	Title        string
	Description  string
	Category     string
	LocationType string
	City         string
	Country      string
	Goals        string
	Outcomes     string
	Roadmap      string
	Technologies string
	Roles        string
	Skills       string
	PeopleCount  int64
}

var createProjectText = `{{define "title"}}Start a Project{{end}}

{{define "content"}}
<h1>Start a Project</h1>
<p class="text-body-secondary">Step {{.Step}} of 6</p>

{{if .UserError}}
  <div class="alert alert-danger" role="alert">
    Error: {{.UserError}}
  </div>
{{end}}

{{if eq .Step 1}}
<form method="POST" action="/create-project">
  <input type="hidden" name="step" value="1">

  <div class="mb-3">
    <label for="title" class="form-label">Title</label>
    <input id="title" type="text" name="title" value="{{.Title}}" class="form-control" required>
  </div>

  <div class="mb-3">
    <label for="description" class="form-label">Description</label>
    <textarea id="description" name="description" class="form-control" rows="5" required>{{.Description}}</textarea>
  </div>

  <div class="mb-3">
    <label for="category" class="form-label">Category</label>
    <input id="category" type="text" name="category" value="{{.Category}}" class="form-control" required>
  </div>

  <div class="mb-3">
    <label for="location-type" class="form-label">Location</label>
    <select id="location-type" name="location-type" class="form-select">
      <option value="" {{if not .LocationType}}selected{{end}}>Unspecified</option>
      <option value="remote" {{if eq .LocationType "remote"}}selected{{end}}>Remote</option>
      <option value="onsite" {{if eq .LocationType "onsite"}}selected{{end}}>On-site</option>
      <option value="hybrid" {{if eq .LocationType "hybrid"}}selected{{end}}>Hybrid</option>
    </select>
  </div>

  <div class="row mb-3">
    <div class="col">
      <label for="city" class="form-label">City</label>
      <input id="city" type="text" name="city" value="{{.City}}" class="form-control">
    </div>
    <div class="col">
      <label for="country" class="form-label">Country</label>
      <input id="country" type="text" name="country" value="{{.Country}}" class="form-control">
    </div>
  </div>

  <button type="submit" name="action" value="next" class="btn btn-primary">Next</button>
  <button type="submit" name="action" value="cancel" class="btn btn-outline-danger" formnovalidate>Cancel</button>
</form>
{{end}}

{{if eq .Step 2}}
<form method="POST" action="/create-project">
  <input type="hidden" name="step" value="2">

  <div class="mb-3">
    <label for="goals" class="form-label">Goals (one per line)</label>
    <textarea id="goals" name="goals" class="form-control" rows="6">{{.Goals}}</textarea>
  </div>

  <button type="submit" name="action" value="back" class="btn btn-outline-secondary" formnovalidate>Back</button>
  <button type="submit" name="action" value="next" class="btn btn-primary">Next</button>
  <button type="submit" name="action" value="cancel" class="btn btn-outline-danger" formnovalidate>Cancel</button>
</form>
{{end}}

{{if eq .Step 3}}
<form method="POST" action="/create-project">
  <input type="hidden" name="step" value="3">

  <div class="mb-3">
    <label for="outcomes" class="form-label">Expected outcomes (one per line)</label>
    <textarea id="outcomes" name="outcomes" class="form-control" rows="6">{{.Outcomes}}</textarea>
  </div>

  <button type="submit" name="action" value="back" class="btn btn-outline-secondary" formnovalidate>Back</button>
  <button type="submit" name="action" value="next" class="btn btn-primary">Next</button>
  <button type="submit" name="action" value="cancel" class="btn btn-outline-danger" formnovalidate>Cancel</button>
</form>
{{end}}

{{if eq .Step 4}}
<form method="POST" action="/create-project">
  <input type="hidden" name="step" value="4">

  <div class="mb-3">
    <label for="roadmap" class="form-label">Roadmap (one step per line; add a description after "|")</label>
    <textarea id="roadmap" name="roadmap" class="form-control" rows="6" placeholder="Build prototype | A rough end-to-end demo">{{.Roadmap}}</textarea>
  </div>

  <button type="submit" name="action" value="back" class="btn btn-outline-secondary" formnovalidate>Back</button>
  <button type="submit" name="action" value="next" class="btn btn-primary">Next</button>
  <button type="submit" name="action" value="cancel" class="btn btn-outline-danger" formnovalidate>Cancel</button>
</form>
{{end}}

{{if eq .Step 5}}
<form method="POST" action="/create-project">
  <input type="hidden" name="step" value="5">

  <div class="mb-3">
    <label for="technologies" class="form-label">Technologies (comma separated)</label>
    <input id="technologies" type="text" name="technologies" value="{{.Technologies}}" class="form-control">
  </div>

  <button type="submit" name="action" value="back" class="btn btn-outline-secondary" formnovalidate>Back</button>
  <button type="submit" name="action" value="next" class="btn btn-primary">Next</button>
  <button type="submit" name="action" value="cancel" class="btn btn-outline-danger" formnovalidate>Cancel</button>
</form>
{{end}}

{{if eq .Step 6}}
<form method="POST" action="/create-project" enctype="multipart/form-data">
  <input type="hidden" name="step" value="6">

  <div class="mb-3">
    <label for="roles" class="form-label">Roles you need (one per line)</label>
    <textarea id="roles" name="roles" class="form-control" rows="4">{{.Roles}}</textarea>
  </div>

  <div class="mb-3">
    <label for="skills" class="form-label">Skills (comma separated)</label>
    <input id="skills" type="text" name="skills" value="{{.Skills}}" class="form-control">
  </div>

  <div class="mb-3">
    <label for="people-count" class="form-label">How many people?</label>
    <input id="people-count" type="number" name="people-count" value="{{.PeopleCount}}" min="0" class="form-control">
  </div>

  <div class="mb-3">
    <label for="images" class="form-label">Project images (up to 5)</label>
    <input id="images" type="file" name="images" class="form-control" accept="image/*" multiple>
  </div>

  <button type="submit" name="action" value="back" class="btn btn-outline-secondary" formnovalidate>Back</button>
  <button type="submit" name="action" value="create" class="btn btn-primary">Create Project</button>
  <button type="submit" name="action" value="cancel" class="btn btn-outline-danger" formnovalidate>Cancel</button>
</form>
{{end}}
{{end}}
`

var CreateProjectTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(createProjectText))
