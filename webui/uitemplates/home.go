package uitemplates

import "html/template"

type HomeParams struct {
	ActiveUser ActiveUserParams
}

var homeText = `{{define "title"}}Home{{end}}

{{define "content"}}
<div class="p-5 mb-4 bg-body-tertiary rounded-3">
  <h1 class="display-5">Build something together.</h1>
  <p class="lead">BezaSpace connects project creators with collaborators.
  Post what you're building, say who you need, and find people with the
  right skills.</p>
  {{if .ActiveUser.SignedIn}}
  <a class="btn btn-primary btn-lg" href="/create-project">Start a Project</a>
  <a class="btn btn-outline-secondary btn-lg" href="/my-projects">My Projects</a>
  {{else}}
  <a class="btn btn-primary btn-lg" href="/log-in">Log In to Get Started</a>
  {{end}}
  <a class="btn btn-outline-secondary btn-lg" href="/browse-projects">Browse Projects</a>
</div>
{{end}}
`

var HomeTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(homeText))
