package pagerduty

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Configuration option names, as stored by the host platform.
const (
	KeyServiceKey           = "service_key"
	KeyUseCustomIncidentKey = "use_custom_incident_key"
	KeyIncidentKeyPrefix    = "incident_key_prefix"
	KeyClient               = "client"
	KeyClientURL            = "client_url"
)

const (
	DefaultIncidentKeyPrefix = "Graylog2/"
	DefaultClient            = "Graylog2"

	serviceKeyLength = 32
)

// RawConfiguration is the untyped option mapping supplied by the host
// platform or a configuration source.
type RawConfiguration map[string]any

// Configuration is the validated, typed form of a RawConfiguration. It is
// never modified after ParseConfiguration returns it.
type Configuration struct {
	ServiceKey           string
	UseCustomIncidentKey bool
	IncidentKeyPrefix    string
	Client               string
	ClientURL            string
}

// Validate checks raw against the option constraints in order and returns
// the first violation as a *ConfigError. It has no side effects.
func Validate(raw RawConfiguration) error {
	serviceKey, err := stringOption(raw, KeyServiceKey)
	if err != nil {
		return err
	}
	if serviceKey == "" {
		return &ConfigError{
			Kind:    MissingRequiredField,
			Field:   KeyServiceKey,
			Message: KeyServiceKey + " is mandatory and must be not be null or empty",
		}
	}
	if utf8.RuneCountInString(serviceKey) != serviceKeyLength {
		return &ConfigError{
			Kind:    InvalidFieldFormat,
			Field:   KeyServiceKey,
			Message: fmt.Sprintf("%s must be %d characters long", KeyServiceKey, serviceKeyLength),
		}
	}

	clientURL, err := stringOption(raw, KeyClientURL)
	if err != nil {
		return err
	}
	if clientURL != "" {
		u, err := url.Parse(clientURL)
		if err != nil {
			return &ConfigError{
				Kind:    InvalidFieldFormat,
				Field:   KeyClientURL,
				Message: "couldn't parse " + KeyClientURL + " correctly",
				Err:     err,
			}
		}
		// url.Parse lowercases the scheme; the raw text must match exactly.
		scheme, _, _ := strings.Cut(clientURL, ":")
		if (scheme != "http" && scheme != "https") || u.Host == "" {
			return &ConfigError{
				Kind:    InvalidFieldFormat,
				Field:   KeyClientURL,
				Message: KeyClientURL + " must be a valid HTTP or HTTPS URL",
			}
		}
	}

	if _, err := boolOption(raw, KeyUseCustomIncidentKey, true); err != nil {
		return err
	}
	if _, err := stringOption(raw, KeyIncidentKeyPrefix); err != nil {
		return err
	}
	if _, err := stringOption(raw, KeyClient); err != nil {
		return err
	}
	return nil
}

// ParseConfiguration validates raw and converts it into a Configuration,
// filling defaults for absent optional values.
func ParseConfiguration(raw RawConfiguration) (Configuration, error) {
	if err := Validate(raw); err != nil {
		return Configuration{}, err
	}

	// Types were checked by Validate.
	cfg := Configuration{
		IncidentKeyPrefix: DefaultIncidentKeyPrefix,
		Client:            DefaultClient,
	}
	cfg.ServiceKey, _ = stringOption(raw, KeyServiceKey)
	cfg.ClientURL, _ = stringOption(raw, KeyClientURL)
	cfg.UseCustomIncidentKey, _ = boolOption(raw, KeyUseCustomIncidentKey, true)
	if _, ok := raw[KeyIncidentKeyPrefix]; ok {
		cfg.IncidentKeyPrefix, _ = stringOption(raw, KeyIncidentKeyPrefix)
	}
	if _, ok := raw[KeyClient]; ok {
		cfg.Client, _ = stringOption(raw, KeyClient)
	}
	return cfg, nil
}

// stringOption returns the string at key, or "" if it is absent or nil.
func stringOption(raw RawConfiguration, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ConfigError{
			Kind:    InvalidFieldFormat,
			Field:   key,
			Message: fmt.Sprintf("%s must be a string (got %T)", key, v),
		}
	}
	return s, nil
}

// boolOption accepts native booleans and their string forms, since KV
// stores only hand back strings.
func boolOption(raw RawConfiguration, key string, def bool) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if b == "" {
			return def, nil
		}
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, &ConfigError{
				Kind:    InvalidFieldFormat,
				Field:   key,
				Message: fmt.Sprintf("%s must be true or false (got %q)", key, b),
			}
		}
		return parsed, nil
	default:
		return false, &ConfigError{
			Kind:    InvalidFieldFormat,
			Field:   key,
			Message: fmt.Sprintf("%s must be a boolean (got %T)", key, v),
		}
	}
}
