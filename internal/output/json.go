package output

import "encoding/json"

// JSONFormatter outputs Result as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format marshals the Result as indented JSON.
func (f *JSONFormatter) Format(result *Result) ([]byte, error) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
