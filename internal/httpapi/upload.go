package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
)

var errImageTooLarge = errors.New("image too large")

type multipartUpload struct {
	identityID string
	image      []byte
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// readMultipart reads the "file" part and the optional "identity_id" field.
func (s *Server) readMultipart(w http.ResponseWriter, r *http.Request) (*multipartUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxImage+64<<10)
	if err := r.ParseMultipartForm(s.maxImage); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errImageTooLarge
		}
		return nil, err
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	up := &multipartUpload{identityID: r.FormValue("identity_id")}

	f, _, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return up, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	up.image, err = s.readImage(f)
	if err != nil {
		return nil, err
	}
	return up, nil
}

// readImage reads at most maxImage bytes from src.
func (s *Server) readImage(src io.Reader) ([]byte, error) {
	img, err := io.ReadAll(io.LimitReader(src, s.maxImage+1))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errImageTooLarge
		}
		return nil, err
	}
	if int64(len(img)) > s.maxImage {
		return nil, errImageTooLarge
	}
	return img, nil
}

func uploadErrorStatus(err error) (int, string, string) {
	if errors.Is(err, errImageTooLarge) {
		return http.StatusRequestEntityTooLarge, "image_too_large", "image exceeds the upload limit"
	}
	return http.StatusBadRequest, "bad_upload", "could not read the uploaded image"
}

func (s *Server) writeUploadError(w http.ResponseWriter, err error) {
	status, code, msg := uploadErrorStatus(err)
	writeError(w, status, code, msg)
}
