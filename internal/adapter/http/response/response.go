// Package response writes the JSON bodies shared by handlers and middleware.
package response

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

// Envelope wraps top-level JSON objects.
type Envelope map[string]any

// JSON writes data as an indented JSON body with the given status.
// Nothing is written when encoding fails.
func JSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	js = append(js, '\n')

	maps.Copy(w.Header(), headers)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// Error writes {"error": message}. If the message cannot be encoded the
// client gets a bare 500.
func Error(w http.ResponseWriter, status int, message any) {
	if err := JSON(w, status, Envelope{"error": message}, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
