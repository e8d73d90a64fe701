package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
)

// ── Identities ───────────────────────────────────────────────────────────────

func (s *Server) handleCreateIdentity(w http.ResponseWriter, r *http.Request) {
	var req types.CreateIdentityRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.identityService.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, "create identity", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetIdentity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "identityID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_identity_id", "identity id must be a positive integer")
		return
	}
	resp, err := s.identityService.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "get identity", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEnroll accepts the face image as a multipart "file" part or as the
// raw request body.
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "identityID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_identity_id", "identity id must be a positive integer")
		return
	}

	var (
		img []byte
		err error
	)
	if isMultipart(r) {
		var form *multipartUpload
		form, err = s.readMultipart(w, r)
		if form != nil {
			img = form.image
		}
	} else {
		img, err = s.readImage(r.Body)
	}
	if err != nil {
		s.writeUploadError(w, err)
		return
	}

	resp, err := s.enrollmentService.Enroll(r.Context(), id, img)
	if err != nil {
		s.writeServiceError(w, r, "enroll", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ── Lounges & bookings ───────────────────────────────────────────────────────

func (s *Server) handleListLounges(w http.ResponseWriter, r *http.Request) {
	lounges, err := s.loungeRegistry.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "list lounges", err)
		return
	}
	if lounges == nil {
		lounges = []types.LoungeResponse{}
	}
	writeJSON(w, http.StatusOK, lounges)
}

func (s *Server) handleGetLounge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "loungeID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_lounge_id", "lounge id must be a positive integer")
		return
	}
	resp, err := s.loungeRegistry.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "get lounge", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req types.BookingRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.bookingService.Book(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, "create booking", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ── Gate ─────────────────────────────────────────────────────────────────────

func (s *Server) handleVerifyEntry(w http.ResponseWriter, r *http.Request) {
	asProto := wantsProtobuf(r)
	fail := func(status int, code, msg string) {
		if asProto {
			writeProto(w, status, errorStruct(code, msg))
			return
		}
		writeError(w, status, code, msg)
	}

	loungeID, ok := pathID(r, "loungeID")
	if !ok {
		fail(http.StatusBadRequest, "invalid_lounge_id", "lounge id must be a positive integer")
		return
	}

	var req types.VerifyRequest
	switch {
	case isProtobuf(r):
		var msg structpb.Struct
		// base64 inflates the image by 4/3.
		limit := s.maxImage*4/3 + 4096
		if err := readProto(r, limit, &msg); err != nil {
			if errors.Is(err, errBodyTooLarge) {
				fail(http.StatusRequestEntityTooLarge, "image_too_large", "image exceeds the upload limit")
				return
			}
			fail(http.StatusBadRequest, "bad_protobuf", "invalid protobuf body")
			return
		}
		var err error
		req, err = verifyRequestFromStruct(&msg, loungeID)
		if err != nil {
			fail(http.StatusBadRequest, "bad_protobuf", err.Error())
			return
		}
		if int64(len(req.Image)) > s.maxImage {
			fail(http.StatusRequestEntityTooLarge, "image_too_large", "image exceeds the upload limit")
			return
		}
	case isMultipart(r):
		form, err := s.readMultipart(w, r)
		if err != nil {
			status, code, msg := uploadErrorStatus(err)
			fail(status, code, msg)
			return
		}
		id, err := strconv.ParseInt(strings.TrimSpace(form.identityID), 10, 64)
		if err != nil || id <= 0 {
			fail(http.StatusBadRequest, "invalid_identity_id", "identity_id must be a positive integer")
			return
		}
		req = types.VerifyRequest{IdentityID: id, VenueID: loungeID, Image: form.image}
	default:
		fail(http.StatusUnsupportedMediaType, "unsupported_media_type", "send multipart/form-data or application/x-protobuf")
		return
	}

	if !s.limiter.AllowIdentity(req.IdentityID) {
		w.Header().Set("Retry-After", strconv.Itoa(s.limiter.RetryAfter()))
		fail(http.StatusTooManyRequests, "rate_limited", "too many verification attempts")
		return
	}

	resp, err := s.accessService.Verify(r.Context(), req)
	if err != nil {
		status, code, msg := classify(err)
		s.logFault(r, "verify entry", status, err)
		fail(status, code, msg)
		return
	}

	if asProto {
		msg, err := verifyResponseToStruct(resp)
		if err != nil {
			fail(http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}
		writeProto(w, http.StatusOK, msg)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ── Admin ────────────────────────────────────────────────────────────────────

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.adminService.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "admin stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.adminService.Users(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "admin users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	logs, err := s.adminService.Logs(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, "admin logs", err)
		return
	}
	if logs == nil {
		logs = []types.EntryLogResponse{}
	}
	writeJSON(w, http.StatusOK, logs)
}
