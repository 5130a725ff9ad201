package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/sleuthgame-go/internal/api/apierr"
	"github.com/mcoot/sleuthgame-go/internal/api/request"
	"github.com/mcoot/sleuthgame-go/internal/model"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// pathID parses a positive integer route variable
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewInvalidRequestError("invalid " + name + ": " + raw)
	}
	return id, nil
}

// sessionID reads the {id} route variable
func sessionID(r *http.Request) (model.SessionID, error) {
	id, err := pathID(r, "id")
	return model.SessionID(id), err
}

// sessionAndPlayer reads the {id} and {pid} route variables
func sessionAndPlayer(r *http.Request) (model.SessionID, model.PlayerID, error) {
	sid, err := sessionID(r)
	if err != nil {
		return 0, 0, err
	}
	pid, err := pathID(r, "pid")
	return sid, model.PlayerID(pid), err
}

// decode reads the JSON body, reporting malformed input as a bad request
func decode(r *http.Request, v any, allowEmpty bool) error {
	if err := request.Decode(r, v, allowEmpty); err != nil {
		return NewInvalidRequestError("invalid request body: " + err.Error())
	}
	return nil
}
