package payload

// Field-name preference policy for the free-form report JSON lives here so
// mail composition and summaries agree on what "the location" of an incident
// is. Lookups are case-insensitive against whatever field names the intake
// form used.

var locationFields = []string{"crossStreets", "address", "streetNames", "location"}

func (d *Document) IncidentLocation() string {
	return d.FirstNonEmpty(locationFields...)
}

func (d *Document) IncidentType() string {
	return d.FirstNonEmpty("incidentType", "typeOfIncident", "reportType")
}

type DetailLine struct {
	Label string
	Value string
}

// IncidentDetails compiles the labeled lines shown in notification bodies and
// exports. Lines whose source field is blank are omitted.
func (d *Document) IncidentDetails() []DetailLine {
	candidates := []struct {
		label  string
		fields []string
	}{
		{"Case Number", []string{"caseNumber", "reportNumber"}},
		{"Incident Type", []string{"incidentType", "typeOfIncident", "reportType"}},
		{"Incident Date/Time", []string{"incidentDateTime", "dateOfIncident", "incidentDate"}},
		{"Address", []string{"address"}},
		{"Cross Streets", []string{"crossStreets"}},
		{"Street Names", []string{"streetNames"}},
		{"Description", []string{"description", "incidentDescription", "details"}},
	}

	var lines []DetailLine
	for _, c := range candidates {
		if v := d.FirstNonEmpty(c.fields...); v != "" {
			lines = append(lines, DetailLine{Label: c.label, Value: v})
		}
	}
	return lines
}
