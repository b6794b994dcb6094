package uitemplates

import "html/template"

type ShowProjectMilestone struct {
	ID          string
	Title       string
	Description string
	DueOn       string
	Status      string
	Progress    int64
}

type ShowProjectTask struct {
	ID         string
	Title      string
	Status     string
	Priority   string
	AssignedTo string
	DueOn      string
}

type ShowProjectResource struct {
	ID          string
	Type        string
	Name        string
	Description string
	Amount      string
	Status      string
}

type ShowProjectRole struct {
	Name             string
	Responsibilities []string
	Skills           string
}

type ShowProjectParams struct {
	ActiveUser ActiveUserParams
	IsOwner    bool
	UserError  string

	ID           string
	Title        string
	Description  string
	Category     string
	Status       string
	CreatedOn    string
	CreatorName  string
	CreatorLink  string
	Location     string
	LocationType string

	Goals        []string
	Outcomes     []string
	Technologies []string
	ImageURLs    []string

	ProgressOverall int64
	TasksCompleted  int64
	TotalTasks      int64

	Milestones  []*ShowProjectMilestone
	Roadmap     []*ShowProjectMilestone
	Tasks       []*ShowProjectTask
	Resources   []*ShowProjectResource
	Roles       []*ShowProjectRole
	PeopleCount int64

	SelfLink         string
	EditLink         string
	AddMilestoneLink string
	AddTaskLink      string
	AddResourceLink  string
}

var showProjectText = `{{define "title"}}{{.Title}}{{end}}

{{define "content"}}
<h1>{{.Title}}</h1>
<p class="text-body-secondary">
  {{.Category}} &middot; {{.Status}} &middot; started {{.CreatedOn}}
  {{if .CreatorName}} &middot; by <a href="{{.CreatorLink}}">{{.CreatorName}}</a>{{end}}
  {{if .LocationType}} &middot; {{.LocationType}}{{if .Location}} ({{.Location}}){{end}}{{end}}
</p>

{{if .UserError}}
  <div class="alert alert-danger" role="alert">
    Error: {{.UserError}}
  </div>
{{end}}

{{if .IsOwner}}
<div class="mb-3">
  <a href="{{.EditLink}}" class="btn btn-outline-primary btn-sm">Edit</a>
  <a href="{{.AddMilestoneLink}}" class="btn btn-outline-primary btn-sm">Add Milestone</a>
  <a href="{{.AddTaskLink}}" class="btn btn-outline-primary btn-sm">Add Task</a>
  <a href="{{.AddResourceLink}}" class="btn btn-outline-primary btn-sm">Add Resource</a>
  <form method="POST" action="/delete-project" class="d-inline">
    <input type="hidden" name="id" value="{{.ID}}">
    <button type="submit" class="btn btn-outline-danger btn-sm">Delete</button>
  </form>
</div>
{{end}}

<p>{{.Description}}</p>

{{if .ImageURLs}}
<div class="row g-2 mb-3">
  {{range .ImageURLs}}
  <div class="col-auto"><img src="{{.}}" alt="Project image" class="img-thumbnail" style="max-height: 10rem;"></div>
  {{end}}
</div>
{{end}}

{{if .TotalTasks}}
<h2>Progress</h2>
<div class="progress mb-2" role="progressbar" aria-valuenow="{{.ProgressOverall}}" aria-valuemin="0" aria-valuemax="100">
  <div class="progress-bar" style="width: {{.ProgressOverall}}%">{{.ProgressOverall}}%</div>
</div>
<p>{{.TasksCompleted}} of {{.TotalTasks}} tasks done.</p>
{{end}}

{{if .Goals}}
<h2>Goals</h2>
<ul>{{range .Goals}}<li>{{.}}</li>{{end}}</ul>
{{end}}

{{if .Outcomes}}
<h2>Expected Outcomes</h2>
<ul>{{range .Outcomes}}<li>{{.}}</li>{{end}}</ul>
{{end}}

{{if .Technologies}}
<h2>Technologies</h2>
<p>{{range .Technologies}}<span class="badge text-bg-secondary me-1">{{.}}</span>{{end}}</p>
{{end}}

{{if .Roles}}
<h2>Who We Need{{if .PeopleCount}} ({{.PeopleCount}} people){{end}}</h2>
<ul>
  {{range .Roles}}
  <li>
    <strong>{{.Name}}</strong>{{if .Skills}} &mdash; {{.Skills}}{{end}}
    {{if .Responsibilities}}<ul>{{range .Responsibilities}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </li>
  {{end}}
</ul>
{{end}}

{{if .Milestones}}
<h2>Milestones</h2>
<table class="table">
  <thead>
    <tr><th>Milestone</th><th>Due</th><th>Status</th><th>Progress</th>{{if .IsOwner}}<th></th>{{end}}</tr>
  </thead>
  <tbody>
    {{range .Milestones}}
    <tr>
      <td>{{.Title}}</td>
      <td>{{.DueOn}}</td>
      <td>{{.Status}}</td>
      <td>{{.Progress}}%</td>
      {{if $.IsOwner}}
      <td>
        <form method="POST" action="/update-milestone" class="d-flex gap-1">
          <input type="hidden" name="id" value="{{$.ID}}">
          <input type="hidden" name="milestone-id" value="{{.ID}}">
          <select name="status" class="form-select form-select-sm">
            <option value="pending" {{if eq .Status "pending"}}selected{{end}}>Pending</option>
            <option value="in-progress" {{if eq .Status "in-progress"}}selected{{end}}>In Progress</option>
            <option value="completed" {{if eq .Status "completed"}}selected{{end}}>Completed</option>
          </select>
          <input type="number" name="progress" value="{{.Progress}}" min="0" max="100" class="form-control form-control-sm" style="width: 6rem;">
          <button type="submit" class="btn btn-outline-primary btn-sm">Save</button>
        </form>
      </td>
      {{end}}
    </tr>
    {{end}}
  </tbody>
</table>
{{end}}

{{if .Roadmap}}
<h2>Roadmap</h2>
<ul>
  {{range .Roadmap}}<li>{{if .DueOn}}{{.DueOn}}: {{end}}<strong>{{.Title}}</strong>{{if .Description}} &mdash; {{.Description}}{{end}}</li>{{end}}
</ul>
{{end}}

{{if .Tasks}}
<h2>Tasks</h2>
<table class="table">
  <thead>
    <tr><th>Task</th><th>Assignee</th><th>Priority</th><th>Due</th><th>Status</th>{{if .IsOwner}}<th></th>{{end}}</tr>
  </thead>
  <tbody>
    {{range .Tasks}}
    <tr>
      <td>{{.Title}}</td>
      <td>{{.AssignedTo}}</td>
      <td>{{.Priority}}</td>
      <td>{{.DueOn}}</td>
      <td>{{.Status}}</td>
      {{if $.IsOwner}}
      <td>
        <form method="POST" action="/update-task" class="d-flex gap-1">
          <input type="hidden" name="id" value="{{$.ID}}">
          <input type="hidden" name="task-id" value="{{.ID}}">
          <select name="status" class="form-select form-select-sm">
            <option value="todo" {{if eq .Status "todo"}}selected{{end}}>To Do</option>
            <option value="in-progress" {{if eq .Status "in-progress"}}selected{{end}}>In Progress</option>
            <option value="done" {{if eq .Status "done"}}selected{{end}}>Done</option>
          </select>
          <button type="submit" class="btn btn-outline-primary btn-sm">Save</button>
        </form>
      </td>
      {{end}}
    </tr>
    {{end}}
  </tbody>
</table>
{{end}}

{{if .Resources}}
<h2>Resources</h2>
<table class="table">
  <thead>
    <tr><th>Type</th><th>Name</th><th>Description</th><th>Amount</th><th>Status</th>{{if .IsOwner}}<th></th>{{end}}</tr>
  </thead>
  <tbody>
    {{range .Resources}}
    <tr>
      <td>{{.Type}}</td>
      <td>{{.Name}}</td>
      <td>{{.Description}}</td>
      <td>{{.Amount}}</td>
      <td>{{.Status}}</td>
      {{if $.IsOwner}}
      <td>
        <form method="POST" action="/update-resource" class="d-flex gap-1">
          <input type="hidden" name="id" value="{{$.ID}}">
          <input type="hidden" name="resource-id" value="{{.ID}}">
          <select name="status" class="form-select form-select-sm">
            <option value="needed" {{if eq .Status "needed"}}selected{{end}}>Needed</option>
            <option value="available" {{if eq .Status "available"}}selected{{end}}>Available</option>
            <option value="secured" {{if eq .Status "secured"}}selected{{end}}>Secured</option>
          </select>
          <button type="submit" class="btn btn-outline-primary btn-sm">Save</button>
        </form>
        <form method="POST" action="/delete-resource" class="d-inline">
          <input type="hidden" name="id" value="{{$.ID}}">
          <input type="hidden" name="resource-id" value="{{.ID}}">
          <button type="submit" class="btn btn-outline-danger btn-sm">Delete</button>
        </form>
      </td>
      {{end}}
    </tr>
    {{end}}
  </tbody>
</table>
{{end}}
{{end}}
`

var ShowProjectTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(showProjectText))
