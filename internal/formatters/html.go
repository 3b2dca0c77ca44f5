package formatters

import (
	"fmt"
	"html/template"
	"strings"

	"cvlens/internal/errors"
	"cvlens/internal/types"
)

// The HTML reports keep a fixed Field/Details row layout so downstream
// consumers can rely on a stable shape; empty cells render as "-".

var entityReportTmpl = template.Must(template.New("entityReport").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Resume Parser</title>
<style>
  .output-area { width: 100%; }
  table {
    width: 100%;
    table-layout: fixed;
    border-collapse: collapse;
  }
  th, td { border: 1px solid #e0e0e0; padding: 10px; }
  th { background-color: #e0e0e0; text-align: center; }
  th:first-child { width: 20%; }
  th:last-child { width: 80%; }
</style>
</head>
<body>
<div class="output-area">
  <table>
  <thead>
    <tr><th>Field</th><th>Details</th></tr>
  </thead>
  <tbody>
    <tr><td>Professional Summary</td><td>{{.Summary}}</td></tr>
    <tr><td>Total Experience</td><td>{{.TotalExperience}}</td></tr>
    <tr><td>Work Experience</td><td>{{if not .WorkExperience}}-{{end}}{{range .WorkExperience}}<div style="margin-bottom: 15px;"><strong>{{.Title}}</strong> at <em>{{.Company}}</em><br><span style="color: #666;">{{.Duration}}</span></div>{{end}}</td></tr>
    <tr><td>Career Gap</td><td>{{.CareerGap}}</td></tr>
    <tr><td>Awards</td><td>{{if not .Awards}}-{{end}}{{range $i, $a := .Awards}}{{if $i}}<br>{{end}}{{$a}}{{end}}</td></tr>
    <tr><td>Highest Degree</td><td>{{.HighestDegree}}</td></tr>
    <tr><td>Institution</td><td>{{.Institution}}</td></tr>
    <tr><td>Graduation Date</td><td>{{.GraduationDate}}</td></tr>
    <tr><td>Technical Skills</td><td>{{if not .TechnicalSkills}}-{{else}}<ul style="margin: 0; padding: 0; list-style-type: none;">{{range .TechnicalSkills}}<li style="margin-bottom: 5px;">&bull; {{.}}</li>{{end}}</ul>{{end}}</td></tr>
    <tr><td>Soft Skills</td><td>{{if not .SoftSkills}}-{{else}}<ul style="margin: 0; padding: 0; list-style-type: none;">{{range .SoftSkills}}<li style="margin-bottom: 5px;">&bull; {{.}}</li>{{end}}</ul>{{end}}</td></tr>
    <tr><td>Projects</td><td>{{if not .Projects}}-{{end}}{{range $i, $p := .Projects}}{{if $i}}<br>{{end}}&bull; {{$p}}{{end}}</td></tr>
    <tr><td>Certifications</td><td>{{if not .Certifications}}-{{else}}<ul style="margin: 0; padding: 0; list-style-type: none;">{{range .Certifications}}<li style="margin-bottom: 5px;">&bull; {{.}}</li>{{end}}</ul>{{end}}</td></tr>
    <tr><td>Competitions</td><td>{{if not .Competitions}}-{{end}}{{range $i, $c := .Competitions}}{{if $i}}<br>{{end}}&bull; {{$c}}{{end}}</td></tr>
    <tr><td>Publications</td><td>{{if not .Publications}}-{{end}}{{range $i, $p := .Publications}}{{if $i}}<br>{{end}}{{$p}}{{end}}</td></tr>
    <tr><td>References</td><td>{{if not .References}}-{{end}}{{range $i, $r := .References}}{{if $i}}<br>{{end}}{{$r}}{{end}}</td></tr>
    <tr><td>Languages</td><td>{{if not .Languages}}-{{end}}{{range $i, $l := .Languages}}{{if $i}}<br>{{end}}&bull; {{$l}}{{end}}</td></tr>
  </tbody>
  </table>
</div>
</body>
</html>
`))

var issueReportTmpl = template.Must(template.New("issueReport").Parse(`<table class="issue-table">
  <tr>
    <th>Missing Section</th>
    <th>Incorrect Spelling</th>
  </tr>
  <tr>
    <td>{{range $i, $s := .MissingSections}}{{if $i}}<br>{{end}}&bull; {{$s}}{{end}}</td>
    <td>{{if not .SpellingCorrections}}-{{end}}{{range $i, $c := .SpellingCorrections}}{{if $i}}<br>{{end}}&bull; {{$c.Incorrect}} (Correct: {{$c.Correct}}){{end}}</td>
  </tr>
</table>
`))

// RenderEntityReport renders the parsed-entity HTML table.
func RenderEntityReport(record *types.EntityRecord) (string, error) {
	if record == nil {
		return "", errors.NewRenderingError(errors.CodeEmptyEntities,
			"Empty entities provided for rendering", nil)
	}

	var buf strings.Builder
	if err := entityReportTmpl.Execute(&buf, dashDefaults(record)); err != nil {
		return "", errors.NewRenderingError(errors.CodeRenderFailed,
			"Failed to render entity report", err)
	}
	return buf.String(), nil
}

// RenderIssueReport renders the quality-check HTML table.
func RenderIssueReport(result types.AnalysisResult) (string, error) {
	var buf strings.Builder
	if err := issueReportTmpl.Execute(&buf, result); err != nil {
		return "", errors.NewRenderingError(errors.CodeRenderFailed,
			"Failed to render issue report", err)
	}
	return buf.String(), nil
}

// dashDefaults copies the record with empty scalar fields replaced by the
// placeholder so every row has content.
func dashDefaults(record *types.EntityRecord) *types.EntityRecord {
	out := *record
	for _, field := range []*string{
		&out.Summary, &out.TotalExperience, &out.CareerGap,
		&out.HighestDegree, &out.Institution, &out.GraduationDate,
	} {
		if *field == "" {
			*field = "-"
		}
	}
	return &out
}

// EntityHTMLFormatter adapts RenderEntityReport to the registry.
type EntityHTMLFormatter struct{}

func (ehf *EntityHTMLFormatter) Format(data any) (string, error) {
	record, err := entityRecord(data)
	if err != nil {
		return "", err
	}
	return RenderEntityReport(record)
}

func (ehf *EntityHTMLFormatter) SupportedType() string {
	return "EntityRecord"
}

// AnalysisHTMLFormatter adapts RenderIssueReport to the registry.
type AnalysisHTMLFormatter struct{}

func (ahf *AnalysisHTMLFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}
	return RenderIssueReport(result)
}

func (ahf *AnalysisHTMLFormatter) SupportedType() string {
	return "AnalysisResult"
}
