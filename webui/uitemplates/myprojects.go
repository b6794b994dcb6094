package uitemplates

import "html/template"

type MyProjectsParams struct {
	ActiveUser ActiveUserParams
	Loading    bool
	LoadError  string
	Projects   []*ProjectCardParams
}

var myProjectsText = `{{define "title"}}My Projects{{end}}

{{define "content"}}
<h1>My Projects</h1>

{{if .LoadError}}
  <div class="alert alert-warning" role="alert">
    {{.LoadError}}
  </div>
{{end}}

{{if .Loading}}
<p>Loading your projects...</p>
{{else if .Projects}}
{{template "project-cards" .Projects}}
{{else}}
<p>You don't have any projects yet.  <a href="/create-project">Start one.</a></p>
{{end}}
{{end}}

{{define "scripts"}}
{{if .Loading}}
<script>setTimeout(function() { window.location.reload(); }, 1000);</script>
{{end}}
{{end}}
`

var MyProjectsTemplate = template.Must(template.Must(template.Must(template.New("base").Parse(baseText)).Parse(projectCardsText)).Parse(myProjectsText))
