package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

const (
	CODE_INTERNAL_ERROR      = 1
	CODE_INVALID_JSON        = 2
	CODE_AUTH_HEADER_MISSING = 3
	CODE_AUTH_TOKEN_INVALID  = 4
	CODE_UNKNOWN_BOOK        = 5
	CODE_UNKNOWN_MOOD        = 6
	CODE_INVALID_ARGUMENT    = 7
	CODE_UPSTREAM_ERROR      = 8
)

type Error struct {
	Code int    `json:"code"`
	Text string `json:"text,omitempty"`
}

func ErrorWithCode(w http.ResponseWriter, httpCode, appCode int) {
	w.WriteHeader(httpCode)
	JSON(w, Error{Code: appCode})
}

func ErrorWithText(w http.ResponseWriter, httpCode, appCode int, errText string) {
	w.WriteHeader(httpCode)
	JSON(w, Error{Code: appCode, Text: errText})
}

func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
