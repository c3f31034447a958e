package main

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Dictionary</title>
{{- if .Refresh}}
<meta http-equiv="refresh" content="{{.Refresh}}">
{{- end}}
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
</head>
<body>
<div class="container d-flex flex-column align-items-center mt-5">
{{- with .State.Notification}}
<div class="alert alert-{{.Severity}} alert-dismissible fade show" role="alert" data-id="{{.ID}}">
<span class="message">{{.Text}}</span>
<form method="post" action="/notification/close">
<input type="hidden" name="id" value="{{.ID}}">
<button type="submit" class="btn-close" aria-label="Close"></button>
</form>
</div>
{{- end}}
<h1 class="mb-4">DictionaryApp</h1>
<form class="d-flex justify-content-center mb-4" method="post" action="/search">
<div class="me-2">
<label for="query" class="form-label">Add word:</label>
<input type="text" class="form-control" name="query" id="query" placeholder="Enter a word">
</div>
<button type="submit" class="btn btn-primary align-self-end">Search</button>
</form>
{{- if .State.Loading}}
<p class="loading">Loading...</p>
{{- end}}
<div class="card w-75">
<div class="card-body">
{{- with .State.Definition}}
<p class="card-text definition"><strong>Definition:</strong> {{.Definition}}</p>
<p class="card-text example"><strong>Example:</strong> {{.Example}}</p>
{{- end}}
</div>
</div>
</div>
</body>
</html>
`
