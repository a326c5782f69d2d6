// Package web exposes the detection pipeline over HTTP with the service's
// JSON/base64 contract: a secret-key header for access, per-request toggles
// for blurring and coordinate reporting, and a mode selector.
package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/edaniels/golog"
	"goji.io"
	"goji.io/pat"

	"github.com/sitewarden/svision/pipeline"
	"github.com/sitewarden/svision/pix"
	"github.com/sitewarden/svision/privacy"
)

// Request headers recognized by the detection endpoint.
const (
	headerSecretKey     = "secret-key"
	headerBlurFaces     = "blur-faces"
	headerDetectObjects = "detect-objects"
	headerBlurMode      = "blur-mode"
)

// Processor handles one detection request. *pipeline.Pipeline implements it.
type Processor interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Response, error)
}

// Server routes HTTP requests into a Processor.
type Server struct {
	proc      Processor
	secretKey string
	logger    golog.Logger
	mux       *goji.Mux
}

// NewServer builds the HTTP surface. secretKey must be non-empty; the
// endpoint refuses everything otherwise.
func NewServer(proc Processor, secretKey string, logger golog.Logger) *Server {
	s := &Server{proc: proc, secretKey: secretKey, logger: logger, mux: goji.NewMux()}
	s.mux.HandleFunc(pat.Get("/"), s.handleRoot)
	s.mux.HandleFunc(pat.Post("/detection"), s.handleDetection)
	return s
}

// Handler returns the routing handler for serving.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Endpoint reachable"))
}

type detectionBody struct {
	Image string `json:"image"`
}

func (s *Server) handleDetection(w http.ResponseWriter, r *http.Request) {
	if s.secretKey == "" || r.Header.Get(headerSecretKey) != s.secretKey {
		s.writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"status":  "error",
			"message": "Unauthorized access",
		})
		return
	}

	blurFaces := r.Header.Get(headerBlurFaces)
	detectObjects := r.Header.Get(headerDetectObjects)
	if blurFaces == "" && detectObjects == "" {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "success",
			"system_message": "Please include headers 'blur-faces' and 'detect-objects' with a true or false value.",
		})
		return
	}
	if blurFaces != "true" && detectObjects != "true" {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "success",
			"system_message": "Please assign a 'true' value to one or both of the headers: 'blur-faces', 'detect-objects'.",
		})
		return
	}

	var body detectionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status":  "error",
			"message": "request body must be JSON with an 'image' field",
		})
		return
	}
	img, err := pix.DecodeBase64(body.Image)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status":  "error",
			"message": "cannot decode image",
		})
		return
	}

	req := pipeline.Request{
		Image:             img,
		BlurHeads:         blurFaces == "true",
		ReportCoordinates: detectObjects == "true",
		Mode:              privacy.ParseMode(r.Header.Get(headerBlurMode)),
	}
	resp, err := s.proc.Process(r.Context(), req)
	if err != nil {
		s.logger.Errorw("request processing failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":  "error",
			"message": "image processing failed",
		})
		return
	}

	out := map[string]interface{}{"status": "success"}
	if req.ReportCoordinates {
		out["coordinates_data"] = resp.Coordinates
	}
	if req.BlurHeads {
		// Explicit null when nothing was blurred; the caller relies on the
		// field being present to know blurring ran.
		out["blured_image"] = nil
		if resp.Blurred != nil {
			encoded, err := resp.Blurred.EncodeBase64()
			if err != nil {
				s.logger.Errorw("could not encode blurred image", "error", err)
				s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
					"status":  "error",
					"message": "image processing failed",
				})
				return
			}
			out["blured_image"] = encoded
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Errorw("could not write response", "error", err)
	}
}
