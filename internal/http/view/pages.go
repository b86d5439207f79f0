package view

import (
	"bytes"
	"html/template"

	"github.com/pagecheck/pageanalyzer/internal/app/model"
)

// Flash is a one-shot feedback banner rendered at the top of a page.
type Flash struct {
	Level   string // "success", "warning" or "danger"
	Message string
}

// IndexData feeds the landing page with its add-URL form.
type IndexData struct {
	Flash *Flash
	Value string // previously entered input, echoed back on validation failure
}

// URLListData feeds the catalog listing page.
type URLListData struct {
	Flash *Flash
	URLs  []model.URLSummary
}

// URLDetailData feeds the single-URL page with its check history.
type URLDetailData struct {
	Flash  *Flash
	URL    *model.URL
	Checks []model.URLCheck
}

const baseCSS = `
	:root { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; }
	body { margin: 0; background: #f4f6f8; color: #1c2733; }
	main { max-width: 920px; margin: 0 auto; padding: 32px 16px; }
	h1 { font-size: 1.6rem; }
	a { color: #0b66c2; text-decoration: none; }
	a:hover { text-decoration: underline; }
	nav { background: #1c2733; padding: 12px 16px; }
	nav a { color: #f4f6f8; margin-right: 18px; font-weight: 600; }
	table { width: 100%; border-collapse: collapse; background: #fff; }
	th, td { text-align: left; padding: 10px 12px; border-bottom: 1px solid #e3e8ee; }
	th { background: #eef2f6; }
	form.add-url { display: flex; gap: 8px; margin: 24px 0; }
	input[type=text] { flex: 1; padding: 10px 12px; border: 1px solid #c3ccd6; border-radius: 6px; }
	button { padding: 10px 18px; border: 0; border-radius: 6px; background: #0b66c2; color: #fff; cursor: pointer; }
	.flash { padding: 12px 16px; border-radius: 6px; margin-bottom: 20px; }
	.flash.success { background: #e2f4e6; color: #1d6b33; }
	.flash.warning { background: #fdf3da; color: #7a5d12; }
	.flash.danger { background: #fbe3e4; color: #8f2430; }
	.muted { color: #6b7a8c; }
`

const baseHead = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{.Title}}</title>
	<style>` + baseCSS + `</style>
</head>
<body>
<nav><a href="/">Page Analyzer</a><a href="/urls">URLs</a></nav>
<main>
{{with .Flash}}<div class="flash {{.Level}}">{{.Message}}</div>{{end}}`

const baseFoot = `</main>
</body>
</html>`

var indexTmpl = template.Must(template.New("index").Parse(baseHead + `
<h1>Check your site for SEO suitability</h1>
<p class="muted">Register a page and track its status code, h1, title and description over time.</p>
<form class="add-url" action="/urls" method="post">
	<input type="text" name="url" placeholder="https://example.com" value="{{.Value}}" required />
	<button type="submit">Check</button>
</form>
` + baseFoot))

var urlListTmpl = template.Must(template.New("urls").Parse(baseHead + `
<h1>Registered URLs</h1>
{{if .URLs}}
<table>
	<tr><th>ID</th><th>Name</th><th>Last check</th><th>Status</th></tr>
	{{range .URLs}}
	<tr>
		<td>{{.ID}}</td>
		<td><a href="/urls/{{.ID}}">{{.Name}}</a></td>
		<td>{{if .LastCheckedAt}}{{.LastCheckedAt.Format "2006-01-02 15:04"}}{{end}}</td>
		<td>{{if .LastStatusCode}}{{.LastStatusCode}}{{end}}</td>
	</tr>
	{{end}}
</table>
{{else}}
<p class="muted">Nothing registered yet. <a href="/">Add the first URL.</a></p>
{{end}}
` + baseFoot))

var urlDetailTmpl = template.Must(template.New("url").Parse(baseHead + `
<h1>{{.URL.Name}}</h1>
<table>
	<tr><th>ID</th><td>{{.URL.ID}}</td></tr>
	<tr><th>Name</th><td>{{.URL.Name}}</td></tr>
	<tr><th>Created</th><td>{{.URL.CreatedAt.Format "2006-01-02 15:04"}}</td></tr>
</table>
<h1>Checks</h1>
<form action="/urls/{{.URL.ID}}/checks" method="post">
	<button type="submit">Run check</button>
</form>
{{if .Checks}}
<table>
	<tr><th>ID</th><th>Status</th><th>h1</th><th>Title</th><th>Description</th><th>Created</th></tr>
	{{range .Checks}}
	<tr>
		<td>{{.ID}}</td>
		<td>{{.StatusCode}}</td>
		<td>{{if .H1}}{{.H1}}{{end}}</td>
		<td>{{if .Title}}{{.Title}}{{end}}</td>
		<td>{{if .Description}}{{.Description}}{{end}}</td>
		<td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
	</tr>
	{{end}}
</table>
{{else}}
<p class="muted">No checks yet.</p>
{{end}}
` + baseFoot))

type pageData struct {
	Title string
	Flash *Flash

	// page-specific payloads
	Value  string
	URLs   []model.URLSummary
	URL    *model.URL
	Checks []model.URLCheck
}

// RenderIndex renders the landing page.
func RenderIndex(data IndexData) (string, error) {
	return render(indexTmpl, pageData{Title: "Page Analyzer", Flash: data.Flash, Value: data.Value})
}

// RenderURLList renders the catalog listing.
func RenderURLList(data URLListData) (string, error) {
	return render(urlListTmpl, pageData{Title: "URLs - Page Analyzer", Flash: data.Flash, URLs: data.URLs})
}

// RenderURLDetail renders one URL with its check history.
func RenderURLDetail(data URLDetailData) (string, error) {
	return render(urlDetailTmpl, pageData{Title: data.URL.Name + " - Page Analyzer", Flash: data.Flash, URL: data.URL, Checks: data.Checks})
}

func render(tmpl *template.Template, data pageData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
