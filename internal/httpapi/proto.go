package httpapi

import (
	"errors"
	"io"
	"net/http"

	"google.golang.org/protobuf/proto"
)

var errBodyTooLarge = errors.New("request body too large")

// isProtobuf reports whether the request carries a protobuf payload.
// Kiosks send "application/x-protobuf".
func isProtobuf(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct == "application/x-protobuf" ||
		ct == "application/protobuf"
}

// wantsProtobuf reports whether the response should be protobuf.
func wantsProtobuf(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "application/x-protobuf" || accept == "application/protobuf" {
		return true
	}
	return accept == "" && isProtobuf(r)
}

// readProto reads at most limit bytes of body into msg.
func readProto(r *http.Request, limit int64, msg proto.Message) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return err
	}
	if int64(len(body)) > limit {
		return errBodyTooLarge
	}
	return proto.Unmarshal(body, msg)
}

func writeProto(w http.ResponseWriter, status int, msg proto.Message) {
	data, err := proto.Marshal(msg)
	if err != nil {
		http.Error(w, "proto marshal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
