package csvimport

import (
	"fmt"
	"time"
)

// ContentType is the MIME type for generated CSV files.
const ContentType = "text/csv;charset=utf-8;"

// Template returns the header row followed by one example row. The example
// row always passes validation.
func Template(s Schema) string {
	example := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		example[i] = c.Example
	}
	return FormatLine(s.Headers()) + "\n" + FormatLine(example)
}

// TemplateFilename returns the download name for an entity's template.
// Clients and tasks carry the date, assignees and todos do not.
func TemplateFilename(e Entity, now time.Time) string {
	switch e {
	case Clients, Tasks:
		return fmt.Sprintf("%s_template_%s.csv", e, now.Format("2006-01-02"))
	default:
		return fmt.Sprintf("%s_upload_template.csv", e)
	}
}
