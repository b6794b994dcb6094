package uitemplates

import "html/template"

type ShowUserParams struct {
	ActiveUser ActiveUserParams
	IsSelf     bool

	DisplayName     string
	Username        string
	Bio             string
	PhotoURL        string
	JoinedOn        string
	EditProfileLink string

	Projects []*ProjectCardParams
}

var showUserText = `{{define "title"}}{{.DisplayName}}{{end}}

{{define "content"}}
<div class="d-flex align-items-center mb-3">
  {{if .PhotoURL}}<img src="{{.PhotoURL}}" alt="Profile photo" class="rounded-circle me-3" style="height: 4rem;">{{end}}
  <div>
    <h1 class="mb-0">{{.DisplayName}}</h1>
    {{if .Username}}<div class="text-body-secondary">@{{.Username}}</div>{{end}}
    <div class="text-body-secondary">Joined {{.JoinedOn}}</div>
  </div>
</div>

{{if .IsSelf}}
<p><a href="{{.EditProfileLink}}" class="btn btn-outline-primary btn-sm">Edit Profile</a></p>
{{end}}

{{if .Bio}}
<p>{{.Bio}}</p>
{{end}}

<h2>Projects</h2>
{{if .Projects}}
{{template "project-cards" .Projects}}
{{else}}
<p>No projects yet.</p>
{{end}}
{{end}}
`

var ShowUserTemplate = template.Must(template.Must(template.Must(template.New("base").Parse(baseText)).Parse(projectCardsText)).Parse(showUserText))
