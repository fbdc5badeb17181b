package web

const layoutTemplate = `{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.}} · MedShield</title>
</head>
<body>
<header><a href="/">Process matrix</a></header>
<main>
{{end}}
{{define "footer"}}</main>
</body>
</html>
{{end}}`

const processTemplate = `{{define "process"}}{{template "header" "Process details"}}
<h1>Process details</h1>
<p class="filter">
  Phase: <strong>{{.Filter.Phase}}</strong>
  Role: <strong>{{.Filter.Role}}</strong>
  {{with .Filter.Subject}}Subject: <strong>{{.}}</strong>{{end}}
  {{with .Filter.Category}}Category: <strong>{{.}}</strong>{{end}}
  {{with .Filter.Standard}}Standard: <strong>{{.}}</strong>{{end}}
  {{with .Filter.Priority}}Priority: <strong>{{.}}</strong>{{end}}
</p>
{{if .Error}}<div class="error" role="alert">{{.Error}}</div>
{{else}}
<p class="total">{{.TotalCount}} clusters</p>
<ul class="clusters">
{{range .Clusters}}  <li class="cluster{{if .Expanded}} expanded{{end}}" id="cluster-{{.Key}}">
    <a class="toggle" href="{{.ToggleURL}}">{{if .Expanded}}Collapse{{else}}Expand{{end}}</a>
    <span class="rep">{{.RepText}}</span>
    <span class="count">{{.Count}} documents</span>
{{if .Expanded}}    <div class="documents">
{{range .Documents}}      <article class="document" id="doc-{{.ID}}">
        <dl>
          <dt>ID</dt><dd>{{.ID}}</dd>
          <dt>Priority</dt><dd>{{.Priority}}</dd>
          <dt>Subject</dt><dd>{{.Subject}}</dd>
          <dt>Category</dt><dd>{{.Category}}</dd>
          <dt>Standard</dt><dd>{{.Standard}}</dd>
        </dl>
        <section class="original"><h3>Original text</h3><p>{{.OriginalText}}</p></section>
{{if .HasProcessedText}}        <section class="processed"><h3>Processed text</h3><p>{{.ProcessedText}}</p></section>
{{end}}      </article>
{{end}}    </div>
{{end}}  </li>
{{end}}</ul>
{{if .ShowPager}}<nav class="pager">
  {{if .Pager.HasPrev}}<a rel="prev" href="{{.PrevURL}}">Previous</a>{{else}}<span class="disabled">Previous</span>{{end}}
  {{range .Pages}}{{if .Current}}<span class="current" aria-current="page">{{.Number}}</span>{{else}}<a class="page" href="{{.URL}}">{{.Number}}</a>{{end}}
  {{end}}
  {{if .Pager.HasNext}}<a rel="next" href="{{.NextURL}}">Next</a>{{else}}<span class="disabled">Next</span>{{end}}
</nav>
{{end}}{{end}}
{{template "footer"}}{{end}}`

const matrixTemplate = `{{define "matrix"}}{{template "header" "Process matrix"}}
<h1>Process matrix</h1>
{{if .Error}}<div class="error" role="alert">{{.Error}}</div>
{{else}}
<form method="get" action="/">
  <select name="subject"><option value="">All subjects</option>{{range .Subjects}}<option{{if eq . $.Filter.Subject}} selected{{end}}>{{.}}</option>{{end}}</select>
  <select name="category"><option value="">All categories</option>{{range .Categories}}<option{{if eq . $.Filter.Category}} selected{{end}}>{{.}}</option>{{end}}</select>
  <select name="standard"><option value="">All standards</option>{{range .Standards}}<option{{if eq . $.Filter.Standard}} selected{{end}}>{{.}}</option>{{end}}</select>
  <select name="priority"><option value="">All priorities</option>{{range .Priorities}}<option{{if eq . $.Filter.Priority}} selected{{end}}>{{.}}</option>{{end}}</select>
  <button type="submit">Filter</button>
</form>
<table class="matrix">
  <thead><tr><th>Phase</th>{{range .Roles}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
{{range .Rows}}  <tr><th>{{.Phase}}</th>{{range .Cells}}<td>{{if .Count}}<a href="{{.URL}}">{{.Count}}</a>{{else}}0{{end}}</td>{{end}}</tr>
{{end}}  </tbody>
</table>
{{end}}
{{template "footer"}}{{end}}`
