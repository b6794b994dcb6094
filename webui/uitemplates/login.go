package uitemplates

import "html/template"

type LogInParams struct {
	ActiveUser          ActiveUserParams
	UserError           string
	GoogleOAuthClientID string
	RedirectTarget      string
}

var logInText = `{{define "title"}}Log In{{end}}

{{define "content"}}
<h1>Log In</h1>

{{if .UserError}}
  <div class="alert alert-danger" role="alert">
    Error: {{.UserError}}
  </div>
{{end}}

<div id="g_id_onload"
     data-client_id="{{.GoogleOAuthClientID}}"
     data-login_uri="/sign-in-with-google{{if .RedirectTarget}}?redirect-target={{.RedirectTarget}}{{end}}"
     data-auto_prompt="false">
</div>
<div class="g_id_signin" data-type="standard"></div>
{{end}}

{{define "scripts"}}
<script src="https://accounts.google.com/gsi/client" async defer></script>
{{end}}
`

var LogInTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(logInText))
