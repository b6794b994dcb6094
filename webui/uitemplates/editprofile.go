package uitemplates

import "html/template"

type EditProfileParams struct {
	ActiveUser  ActiveUserParams
	DisplayName string
	Username    string
	Bio         string
	PhotoURL    string
	SelfLink    string
	UserError   string
}

var editProfileText = `{{define "title"}}Edit Profile{{end}}

{{define "content"}}
<h1>Edit Profile</h1>

{{if .UserError}}
  <div class="alert alert-danger" role="alert">
    Error: {{.UserError}}
  </div>
{{end}}

<form method="POST" action="/edit-profile">
  <div class="mb-3">
    <label for="display-name" class="form-label">Display Name</label>
    <input id="display-name" type="text" name="display-name" value="{{.DisplayName}}" class="form-control" required>
  </div>

  <div class="mb-3">
    <label for="username" class="form-label">Username</label>
    <input id="username" type="text" name="username" value="{{.Username}}" class="form-control">
    <div class="form-text">Usernames are stored lowercase and must not contain spaces.</div>
  </div>

  <div class="mb-3">
    <label for="bio" class="form-label">Bio</label>
    <textarea id="bio" name="bio" class="form-control" rows="4">{{.Bio}}</textarea>
  </div>

  <button type="submit" class="btn btn-primary">Save</button>
</form>
{{end}}
`

var EditProfileTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(editProfileText))
