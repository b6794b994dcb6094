// Package uitemplates holds the HTML templates of the BezaSpace web UI, one
// file per page.  Every page parses on top of the shared base layout.
package uitemplates

var baseText = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{block "title" .}}Title{{end}} - BezaSpace</title>
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0-alpha1/dist/css/bootstrap.min.css" rel="stylesheet" integrity="sha384-GLhlTQ8iRABdZLl6O3oVMWSktQOp6b7In1Zl3/Jr59b6EGGoI1aFkw7cmDA6j6gD" crossorigin="anonymous">

    {{block "head" .}}{{end}}
  </head>
  <body>
    <div class="container">
      <nav class="navbar navbar-expand bg-body-tertiary">
        <div class="container-fluid">
          <a class="navbar-brand" href="/">BezaSpace</a>
          <ul class="navbar-nav me-auto">
            <li class="nav-item"><a class="nav-link" href="/browse-projects">Browse Projects</a></li>
            <li class="nav-item"><a class="nav-link" href="/search-users">Find People</a></li>
            {{if .ActiveUser.SignedIn}}
            <li class="nav-item"><a class="nav-link" href="/my-projects">My Projects</a></li>
            <li class="nav-item"><a class="nav-link" href="/create-project">Start a Project</a></li>
            {{end}}
          </ul>
          <ul class="navbar-nav">
            {{if .ActiveUser.SignedIn}}
            <li class="nav-item"><span class="navbar-text me-2">{{.ActiveUser.DisplayName}}</span></li>
            <li class="nav-item"><a class="nav-link" href="/log-out">Log Out</a></li>
            {{else}}
            <li class="nav-item"><a class="nav-link" href="/log-in">Log In</a></li>
            {{end}}
          </ul>
        </div>
      </nav>

      <main class="mt-3">
        {{block "content" .}}{{end}}
      </main>

      <footer class="pt-3 my-5 border-top">
        <address>
	      <a href="mailto:hello@bezaspace.dev">Contact</a>
        </address>
      </footer>
    </div>

    <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0-alpha1/dist/js/bootstrap.bundle.min.js" integrity="sha384-w76AqPfDkMBDXo30jS1Sgez6pr3x5MlQ1ZAGC+nuZB+EYdgRZgiwxhTBTkF7CXvN" crossorigin="anonymous"></script>
    {{block "scripts" .}}{{end}}
  </body>
</html>
`
