package uitemplates

import "html/template"

type EditProjectParams struct {
	ActiveUser   ActiveUserParams
	ID           string
	Title        string
	Description  string
	Category     string
	Status       string
	Technologies string
	SelfLink     string
	UserError    string
}

var editProjectText = `{{define "title"}}Edit Project{{end}}

{{define "content"}}
<h1>Edit: {{.Title}}</h1>

{{if .UserError}}
  <div class="alert alert-danger" role="alert">
    Error: {{.UserError}}
  </div>
{{end}}

<form method="POST" action="/edit-project">
  <input type="hidden" name="id" value="{{.ID}}">

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
    <label for="status" class="form-label">Status</label>
    <select id="status" name="status" class="form-select">
      <option value="active" {{if eq .Status "active"}}selected{{end}}>Active</option>
      <option value="completed" {{if eq .Status "completed"}}selected{{end}}>Completed</option>
      <option value="archived" {{if eq .Status "archived"}}selected{{end}}>Archived</option>
    </select>
  </div>

  <div class="mb-3">
    <label for="technologies" class="form-label">Technologies (comma separated)</label>
    <input id="technologies" type="text" name="technologies" value="{{.Technologies}}" class="form-control">
  </div>

  <button type="submit" class="btn btn-primary">Save</button>
</form>
{{end}}
`

var EditProjectTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(editProjectText))
