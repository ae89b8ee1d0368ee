package notes

import "fmt"

// PDF layout modes.
const (
	ModeStandard = "standard"
	ModeTablet   = "tablet"
	ModeEbook    = "ebook"
)

type pageLayout struct {
	size     string
	margin   string
	fontSize string
}

var layouts = map[string]pageLayout{
	ModeStandard: {size: "A4", margin: "2cm 1.5cm", fontSize: "11pt"},
	ModeTablet:   {size: "A5", margin: "1cm 0.8cm", fontSize: "12pt"},
	ModeEbook:    {size: "A6", margin: "0.5cm", fontSize: "10pt"},
}

// pageCSS returns the @page and body rules for mode. Unknown modes fall back
// to standard.
func pageCSS(mode string) string {
	l, ok := layouts[mode]
	if !ok {
		l = layouts[ModeStandard]
	}
	return fmt.Sprintf(`@page {
  size: %s;
  margin: %s;
}
body {
  font-size: %s;
}`, l.size, l.margin, l.fontSize)
}

const baseCSS = `body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, "Noto Sans", sans-serif;
  line-height: 1.6;
  color: #333;
}
h1 {
  font-size: 2em;
  color: #1a1a1a;
  border-bottom: 2px solid #4A90E2;
  padding-bottom: 0.3em;
  page-break-after: avoid;
}
h2 { font-size: 1.6em; color: #2c3e50; page-break-after: avoid; }
h3 { font-size: 1.3em; color: #34495e; page-break-after: avoid; }
h4 { font-size: 1.1em; color: #555; }
p { margin: 0.5em 0; }
table {
  width: 100%;
  border-collapse: collapse;
  margin: 1em 0;
  page-break-inside: avoid;
}
th { background-color: #4A90E2; color: white; padding: 8px; text-align: left; }
td { padding: 6px 8px; border: 1px solid #ddd; }
tr:nth-child(even) { background-color: #f9f9f9; }
code {
  background-color: #f4f4f4;
  padding: 2px 6px;
  border-radius: 3px;
  font-family: "SF Mono", Monaco, "Courier New", monospace;
}
pre {
  background-color: #f4f4f4;
  padding: 12px;
  border-left: 4px solid #4A90E2;
  page-break-inside: avoid;
}
blockquote {
  border-left: 4px solid #4A90E2;
  margin: 1em 0;
  padding: 0.5em 1em;
  color: #555;
  font-style: italic;
  background-color: #f9f9f9;
}
a { color: #4A90E2; text-decoration: none; }
hr { border: none; border-top: 2px solid #ddd; margin: 2em 0; }
input[type="checkbox"] { margin-right: 0.5em; }
[dir="rtl"] body, [dir="rtl"] { text-align: right; }`
