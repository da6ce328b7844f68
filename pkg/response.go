package pkg

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// ContentType values used across the handlers.
var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain",
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, payload []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)
	if _, err := w.Write(payload); err != nil {
		log.Errorf("failed to write response [%s]: %s", payload, err)
	}
}

func WriteResponseBytesOK(w http.ResponseWriter, contentType string, payload []byte) {
	WriteResponseBytes(w, contentType, payload, http.StatusOK)
}

func WriteJSONResponseOK(w http.ResponseWriter, payload string) {
	WriteResponseBytesOK(w, ContentType.JSON, []byte(payload))
}

func WriteTextResponseOK(w http.ResponseWriter, payload string) {
	WriteResponseBytesOK(w, ContentType.Text, []byte(payload))
}
