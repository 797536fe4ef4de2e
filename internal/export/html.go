package export

import (
	"bytes"
	"html/template"

	"github.com/jonathan/career-assistant/internal/profile"
)

var htmlTemplate = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Name}}</title>
<style>
body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
.container { background: white; padding: 30px; border-radius: 8px; }
h1 { color: #6C63FF; border-bottom: 2px solid #6C63FF; padding-bottom: 10px; }
.label { font-weight: bold; color: #6C63FF; }
pre { background: #f0f0f0; padding: 10px; border-radius: 4px; overflow-x: auto; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Name}}</h1>
<h2>Career Information</h2>
<p><span class="label">Field:</span> {{.Field}}</p>
<p><span class="label">Experience:</span> {{.Level}}</p>
<p><span class="label">Created:</span> {{.Created}}</p>
<p><span class="label">Updated:</span> {{.Updated}}</p>
<h2>Full Profile Data</h2>
<pre>{{.Raw}}</pre>
</div>
</body>
</html>
`))

// HTML renders p as a standalone page.
func HTML(p *profile.Profile) ([]byte, error) {
	raw, err := JSON(p)
	if err != nil {
		return nil, err
	}
	name := p.Name
	if name == "" {
		name = "Career Profile"
	}

	var buf bytes.Buffer
	err = htmlTemplate.Execute(&buf, map[string]string{
		"Name":    name,
		"Field":   orNA(p.CareerField),
		"Level":   orNA(p.ExperienceLevel),
		"Created": formatTime(p.CreatedAt),
		"Updated": formatTime(p.UpdatedAt),
		"Raw":     string(raw),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
