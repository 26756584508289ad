package widgets

import (
	"html/template"

	timeutil "shelf-widgets/pkg/utils/time"
)

var funcs = template.FuncMap{
	"monthYear": timeutil.MonthYear,
	"cover":     UpgradeCover,
}

var templates = template.Must(template.New("widgets").Funcs(funcs).Parse(`
{{define "current-book"}}<div id="current-book">
  <div class="book current-book-display">
    {{- if .HasCover}}
    <div class="current-book-cover"><img src="{{cover .ImageURL}}" alt="{{.Title}}"></div>
    {{- end}}
    <div class="book-info">
      <a href="{{.Link}}" target="_blank" class="book-title">{{.Title}}</a>
      <span class="book-author">{{.Author}}</span>
    </div>
  </div>
</div>
{{end}}

{{define "recent-books"}}<ul id="recent-books">
{{- range .}}
  <li>
    <a href="{{.Link}}" target="_blank">{{.Title}}</a>
    <span class="book-author">{{.Author}}</span>
  </li>
{{- else}}
  <li>No recent books</li>
{{- end}}
</ul>
{{end}}

{{define "reading-fallback"}}<div id="current-book">
  <div class="book">
    <div class="book-info">
      <a href="{{.}}" class="book-title">Visit Goodreads</a>
    </div>
  </div>
</div>
<ul id="recent-books">
  <li><a href="{{.}}">See reading list →</a></li>
</ul>
{{end}}

{{define "writing-list"}}<ul id="writing-list">
{{- range .}}
  <li>
    <a href="{{.URL}}" target="_blank">{{.Title}}</a>
    <span class="meta"><em>{{.Publication}}</em> · {{monthYear .Date}}</span>
  </li>
{{- else}}
  <li class="no-results">No articles found</li>
{{- end}}
</ul>
{{end}}

{{define "writing-filters"}}<div id="writing-filters">
{{- range .}}
  <label><input type="checkbox" value="{{.Name}}"{{if .Checked}} checked{{end}}> <em>{{.Name}}</em></label>
{{- end}}
</div>
{{end}}

{{define "featured-work"}}<ul id="featured-work">
{{- range .}}
  <li class="featured-item">
    <a href="{{.URL}}" target="_blank" class="featured-link">
      {{- if .Image}}
      <img src="{{.Image}}" alt="" class="featured-image">
      {{- end}}
      <div class="featured-text">
        <span class="featured-title">{{.Title}}</span>
        <span class="featured-meta"><em>{{.Publication}}</em></span>
      </div>
    </a>
  </li>
{{- end}}
</ul>
{{end}}
`))
