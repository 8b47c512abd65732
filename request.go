package pagerduty

type FieldType string

const (
	TextField    FieldType = "text"
	BooleanField FieldType = "boolean"
)

type ConfigurationField struct {
	Name         string    `json:"name"`
	Type         FieldType `json:"type"`
	HumanName    string    `json:"human_name"`
	DefaultValue any       `json:"default_value"`
	Description  string    `json:"description"`
	Optional     bool      `json:"is_optional"`
}

// ConfigurationRequest is the ordered set of fields a callback asks for.
type ConfigurationRequest struct {
	Fields []ConfigurationField `json:"fields"`
}

func (r ConfigurationRequest) Field(name string) (ConfigurationField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ConfigurationField{}, false
}

func (c *Callback) RequestedConfiguration() ConfigurationRequest {
	return ConfigurationRequest{Fields: []ConfigurationField{
		{
			Name:         KeyServiceKey,
			Type:         TextField,
			HumanName:    "PagerDuty service key",
			DefaultValue: "",
			Description:  "PagerDuty service key",
		},
		{
			Name:         KeyUseCustomIncidentKey,
			Type:         BooleanField,
			HumanName:    "Use custom incident key",
			DefaultValue: true,
			Description:  "Generate a custom incident key based on the Stream and the Alert Condition.",
			Optional:     true,
		},
		{
			Name:         KeyIncidentKeyPrefix,
			Type:         TextField,
			HumanName:    "Incident key prefix",
			DefaultValue: DefaultIncidentKeyPrefix,
			Description:  "Identifies the incident.",
			Optional:     true,
		},
		{
			Name:         KeyClient,
			Type:         TextField,
			HumanName:    "Client name",
			DefaultValue: DefaultClient,
			Description:  "The name of the Graylog2 server that is triggering the PagerDuty event.",
			Optional:     true,
		},
		{
			Name:         KeyClientURL,
			Type:         TextField,
			HumanName:    "Client URL",
			DefaultValue: "",
			Description:  "The URL of the Graylog2 server that is triggering the PagerDuty event.",
			Optional:     true,
		},
	}}
}
