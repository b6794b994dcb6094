package uitemplates

// ProjectCardParams is the card-level view of a project, shared by the
// browse page, my-projects, and profile pages.  The json tags serve the
// live-search API, which returns cards directly.
type ProjectCardParams struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	CreatorName string `json:"creatorName,omitempty"`
	CreatorLink string `json:"creatorLink,omitempty"`
	CreatedOn   string `json:"createdOn"`
	ShowLink    string `json:"showLink"`
}

// projectCardsText renders a list of cards.  Pages that show project lists
// parse this alongside their own content.
var projectCardsText = `
{{define "project-cards"}}
<div class="row row-cols-1 row-cols-md-3 g-4">
  {{range .}}
  <div class="col">
    <div class="card h-100">
      <div class="card-body">
        <h5 class="card-title"><a href="{{.ShowLink}}">{{.Title}}</a></h5>
        <h6 class="card-subtitle mb-2 text-body-secondary">{{.Category}} &middot; {{.Status}}</h6>
        <p class="card-text">{{.Description}}</p>
      </div>
      <div class="card-footer">
        {{if .CreatorName}}<a href="{{.CreatorLink}}">{{.CreatorName}}</a> &middot; {{end}}{{.CreatedOn}}
      </div>
    </div>
  </div>
  {{end}}
</div>
{{end}}
`
