package uitemplates

import "html/template"

// AddItemParams serves the add-milestone, add-task, and add-resource forms,
// which share a shape.
type AddItemParams struct {
	ActiveUser   ActiveUserParams
	ProjectID    string
	ProjectTitle string
	ProjectLink  string
	SelfLink     string
	UserError    string
}

var addMilestoneText = `{{define "title"}}Add Milestone{{end}}

{{define "content"}}
<h1>Add a Milestone to {{.ProjectTitle}}</h1>

{{if .UserError}}
  <div class="alert alert-danger" role="alert">
    Error: {{.UserError}}
  </div>
{{end}}

<form method="POST" action="/add-milestone">
  <input type="hidden" name="id" value="{{.ProjectID}}">

  <div class="mb-3">
    <label for="title" class="form-label">Title</label>
    <input id="title" type="text" name="title" value="" class="form-control" required>
  </div>

  <div class="mb-3">
    <label for="description" class="form-label">Description</label>
    <textarea id="description" name="description" class="form-control" rows="3"></textarea>
  </div>

  <div class="mb-3">
    <label for="due-date" class="form-label">Due Date</label>
    <input id="due-date" type="date" name="due-date" value="" class="form-control" required>
  </div>

  <button type="submit" class="btn btn-primary">Add Milestone</button>
  <a href="{{.ProjectLink}}" class="btn btn-outline-secondary">Back</a>
</form>
{{end}}
`

var AddMilestoneTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(addMilestoneText))

var addTaskText = `{{define "title"}}Add Task{{end}}

{{define "content"}}
<h1>Add a Task to {{.ProjectTitle}}</h1>

{{if .UserError}}
  <div class="alert alert-danger" role="alert">
    Error: {{.UserError}}
  </div>
{{end}}

<form method="POST" action="/add-task">
  <input type="hidden" name="id" value="{{.ProjectID}}">

  <div class="mb-3">
    <label for="title" class="form-label">Title</label>
    <input id="title" type="text" name="title" value="" class="form-control" required>
  </div>

  <div class="mb-3">
    <label for="description" class="form-label">Description</label>
    <textarea id="description" name="description" class="form-control" rows="3"></textarea>
  </div>

  <div class="mb-3">
    <label for="assigned-to" class="form-label">Assignee</label>
    <input id="assigned-to" type="text" name="assigned-to" value="" class="form-control">
  </div>

  <div class="mb-3">
    <label for="priority" class="form-label">Priority</label>
    <select id="priority" name="priority" class="form-select">
      <option value="low">Low</option>
      <option value="medium" selected>Medium</option>
      <option value="high">High</option>
    </select>
  </div>

  <div class="mb-3">
    <label for="due-date" class="form-label">Due Date</label>
    <input id="due-date" type="date" name="due-date" value="" class="form-control">
  </div>

  <button type="submit" class="btn btn-primary">Add Task</button>
  <a href="{{.ProjectLink}}" class="btn btn-outline-secondary">Back</a>
</form>
{{end}}
`

var AddTaskTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(addTaskText))

var addResourceText = `{{define "title"}}Add Resource{{end}}

{{define "content"}}
<h1>Add a Resource to {{.ProjectTitle}}</h1>

{{if .UserError}}
  <div class="alert alert-danger" role="alert">
    Error: {{.UserError}}
  </div>
{{end}}

<form method="POST" action="/add-resource">
  <input type="hidden" name="id" value="{{.ProjectID}}">

  <div class="mb-3">
    <label for="type" class="form-label">Type</label>
    <select id="type" name="type" class="form-select">
      <option value="tools" selected>Tools</option>
      <option value="funding">Funding</option>
      <option value="equipment">Equipment</option>
      <option value="other">Other</option>
    </select>
  </div>

  <div class="mb-3">
    <label for="name" class="form-label">Name</label>
    <input id="name" type="text" name="name" value="" class="form-control" required>
  </div>

  <div class="mb-3">
    <label for="description" class="form-label">Description</label>
    <textarea id="description" name="description" class="form-control" rows="2"></textarea>
  </div>

  <div class="mb-3">
    <label for="amount" class="form-label">Amount (funding only)</label>
    <input id="amount" type="number" name="amount" value="" min="0" step="0.01" class="form-control">
  </div>

  <div class="mb-3">
    <label for="status" class="form-label">Status</label>
    <select id="status" name="status" class="form-select">
      <option value="needed" selected>Needed</option>
      <option value="available">Available</option>
      <option value="secured">Secured</option>
    </select>
  </div>

  <button type="submit" class="btn btn-primary">Add Resource</button>
  <a href="{{.ProjectLink}}" class="btn btn-outline-secondary">Back</a>
</form>
{{end}}
`

var AddResourceTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(addResourceText))
