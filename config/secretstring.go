package config

// SecretStringValue replaces secret values in any marshaled output.
const SecretStringValue = "<secret>"

// SecretString is used for configuration values which must never show up in
// logs, dumped configuration or debug reports (user names for branding
// lookups).
type SecretString string

// MarshalJSON hides actual value.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte("\"" + SecretStringValue + "\""), nil
}

// MarshalYAML hides actual value.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
