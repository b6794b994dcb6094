package uitemplates

import "html/template"

type SearchUsersParams struct {
	ActiveUser ActiveUserParams
}

var searchUsersText = `{{define "title"}}Find People{{end}}

{{define "content"}}
<h1>Find People</h1>

{{if .ActiveUser.SignedIn}}
<div class="mb-3">
  <label for="user-search" class="form-label">Search by name or username</label>
  <input id="user-search" type="text" class="form-control" autocomplete="off" placeholder="Start typing...">
</div>

<div id="user-search-status" class="text-body-secondary mb-2"></div>
<ul id="user-search-results" class="list-group"></ul>
{{else}}
<p><a href="/log-in">Log in</a> to search for collaborators.</p>
{{end}}
{{end}}

{{define "scripts"}}
{{if .ActiveUser.SignedIn}}
<script>
(function() {
  var input = document.getElementById('user-search');
  var status = document.getElementById('user-search-status');
  var list = document.getElementById('user-search-results');
  var pollTimer = null;

  function render(data) {
    status.textContent = data.searching ? 'Searching...' : '';
    if (data.error) {
      status.textContent = 'Search failed; try again.';
    }
    list.innerHTML = '';
    (data.results || []).forEach(function(user) {
      var item = document.createElement('li');
      item.className = 'list-group-item';
      var link = document.createElement('a');
      link.href = '/show-user?uid=' + encodeURIComponent(user.uid);
      link.textContent = user.displayName + (user.username ? ' (@' + user.username + ')' : '');
      item.appendChild(link);
      if (user.bio) {
        var bio = document.createElement('div');
        bio.className = 'text-body-secondary';
        bio.textContent = user.bio;
        item.appendChild(bio);
      }
      list.appendChild(item);
    });
    if (data.searching && !pollTimer) {
      pollTimer = setTimeout(function() { pollTimer = null; poll(); }, 350);
    }
  }

  function poll() {
    fetch('/api/search-users')
      .then(function(resp) { return resp.json(); })
      .then(render);
  }

  input.addEventListener('input', function() {
    fetch('/api/search-users?q=' + encodeURIComponent(input.value))
      .then(function(resp) { return resp.json(); })
      .then(render);
  });
})();
</script>
{{end}}
{{end}}
`

var SearchUsersTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(searchUsersText))
