package text

import (
	_ "embed" // use go embed to import template
	"fmt"
	"io"
	"text/template"

	"github.com/gookit/color"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/cwe"
)

var (
	errorTheme   = color.New(color.FgLightWhite, color.BgRed)
	warningTheme = color.New(color.FgBlack, color.BgYellow)
	successTheme = color.New(color.FgBlack, color.BgGreen)
	defaultTheme = color.New(color.FgWhite, color.BgBlack)

	//go:embed template.txt
	templateContent string
)

// WriteReport write a (colorized) report in text format
func WriteReport(w io.Writer, data *cwelookup.Batch, enableColor bool) error {
	t, e := template.
		New("cwelookup").
		Funcs(plainTextFuncMap(enableColor)).
		Parse(templateContent)
	if e != nil {
		return e
	}

	return t.Execute(w, data)
}

func plainTextFuncMap(enableColor bool) template.FuncMap {
	if enableColor {
		return template.FuncMap{
			"highlight": highlight,
			"entry":     colorEntry,
			"danger":    color.Danger.Render,
			"notice":    color.Notice.Render,
			"success":   color.Success.Render,
		}
	}

	// by default those functions return the given content untouched
	return template.FuncMap{
		"highlight": func(s cwelookup.Status) string {
			return s.String()
		},
		"entry":   describe,
		"danger":  fmt.Sprint,
		"notice":  fmt.Sprint,
		"success": fmt.Sprint,
	}
}

// highlight returns the status colored by outcome
func highlight(s cwelookup.Status) string {
	switch s {
	case cwelookup.StatusResolved:
		return successTheme.Sprint(s.String())
	case cwelookup.StatusFailed:
		return errorTheme.Sprint(s.String())
	case cwelookup.StatusUnknown, cwelookup.StatusMissing:
		return warningTheme.Sprint(s.String())
	default:
		return defaultTheme.Sprint(s.String())
	}
}

func colorEntry(value string, s cwelookup.Status) string {
	if s == cwelookup.StatusFailed {
		return color.Danger.Render(value)
	}
	return describe(value, s)
}

// describe appends the catalogued weakness name and its definition link
// when there is one
func describe(value string, _ cwelookup.Status) string {
	w, ok := cwe.Lookup(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("%s %s (%s)", w.SprintID(), w.Name, w.SprintURL())
}
