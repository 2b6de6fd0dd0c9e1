package helpers

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/unrolled/render"
)

const TimestampLayout = "2006-01-02 15:04:05"

type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

func NewEnvelope(success bool, message string, data interface{}) Envelope {
	return Envelope{
		Success:   success,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Format(TimestampLayout),
	}
}

func Success(rnd *render.Render, w http.ResponseWriter, status int, message string, data interface{}) {
	if err := rnd.JSON(w, status, NewEnvelope(true, message, data)); err != nil {
		log.Printf("Success: failed to render response: %v", err)
	}
}

func Fail(rnd *render.Render, w http.ResponseWriter, status int, message string, data interface{}) {
	if err := rnd.JSON(w, status, NewEnvelope(false, message, data)); err != nil {
		log.Printf("Fail: failed to render response: %v", err)
	}
}

// RespondError maps err onto the envelope. Storage failures log their detail and render a generic message.
func RespondError(rnd *render.Render, w http.ResponseWriter, r *http.Request, err error) {
	appErr := AsAppError(err)

	if appErr.Code >= http.StatusInternalServerError {
		log.Printf("RespondError: %s %s: %v", r.Method, r.URL.Path, appErr)
	}

	if appErr.RetryAfter > 0 {
		seconds := int(math.Ceil(appErr.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	var data interface{}
	if len(appErr.Fields) > 0 {
		data = appErr.Fields
	}
	Fail(rnd, w, appErr.Code, appErr.Message, data)
}
