package uitemplates

import "html/template"

type LogOutParams struct {
	ActiveUser ActiveUserParams
}

var logOutText = `{{define "title"}}Log Out{{end}}

{{define "content"}}
<h1>Log Out</h1>

<p>Log out of BezaSpace, {{.ActiveUser.DisplayName}}?</p>

<form method="POST" action="/log-out">
  <button type="submit" class="btn btn-primary">Log Out</button>
</form>
{{end}}
`

var LogOutTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(logOutText))
