package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
}

// Envelope is the body of every API response. Failures never surface as
// bare status codes, the client always gets ok=false with a reason.
type Envelope struct {
	OK     bool              `json:"ok"`
	Data   any               `json:"data,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, Envelope{OK: true, Data: data})
}

func WriteJSONError(w http.ResponseWriter, statusCode int, message string, fields map[string]string) {
	writeEnvelope(w, statusCode, Envelope{
		OK:     false,
		Error:  message,
		Fields: fields,
	})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env Envelope) {
	respJson, err := json.Marshal(env)
	if err != nil {
		log.Errorf("failed to marshal response envelope: %s", err)
		WriteResponseBytes(w, ContentType.JSON, []byte(`{"ok":false,"error":"internal error"}`), http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respJson, statusCode)
}
