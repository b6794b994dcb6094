package uitemplates

import "html/template"

type ProjectNotFoundParams struct {
	ActiveUser ActiveUserParams
	ID         string
}

var projectNotFoundText = `{{define "title"}}Project Not Found{{end}}

{{define "content"}}
<h1>Project Not Found</h1>

<p>There is no project with id <code>{{.ID}}</code>.  It may have been
deleted.</p>

<p><a href="/browse-projects">Browse projects</a></p>
{{end}}
`

var ProjectNotFoundTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(projectNotFoundText))
