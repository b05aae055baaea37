package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/marcelsud/whatsapp-relay/session"
)

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"`
}

type connectionResponse struct {
	Status        string  `json:"status"`
	SessionID     string  `json:"sessionId,omitempty"`
	LastConnected *string `json:"lastConnected,omitempty"`
}

type connectResponse struct {
	QRCode string `json:"qrCode"`
	Status string `json:"status"`
}

type qrCodeResponse struct {
	QRCode string `json:"qrCode"`
}

type sendMessageRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

// getHealth handles GET /api/health
func getHealth(started time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok(w, healthResponse{Status: "healthy", Uptime: time.Since(started).Seconds()})
	})
}

// getConnectionStatus handles GET /api/connection/status
func getConnectionStatus(ctrl session.Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := ctrl.Status()
		ok(w, connectionResponse{
			Status:        snap.Status.String(),
			SessionID:     snap.SessionID,
			LastConnected: isoTimePtr(snap.LastConnected),
		})
	})
}

// postConnect handles POST /api/connection/connect
func postConnect(ctrl session.Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, err := ctrl.Connect(r.Context())
		if err != nil {
			failWith(w, err)
			return
		}
		ok(w, connectResponse{QRCode: snap.QRCode, Status: snap.Status.String()})
	})
}

// postDisconnect handles POST /api/connection/disconnect
func postDisconnect(ctrl session.Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.Disconnect(r.Context()); err != nil {
			failWith(w, err)
			return
		}
		done(w, "Disconnected successfully")
	})
}

// postQRCode handles POST /api/connection/qr-code
func postQRCode(ctrl session.Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok(w, qrCodeResponse{QRCode: ctrl.Status().QRCode})
	})
}

// postSendMessage handles POST /api/send-message
func postSendMessage(ctrl session.Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		sent, err := ctrl.SendMessage(r.Context(), req.PhoneNumber, req.Message)
		if err != nil {
			failWith(w, err)
			return
		}
		ok(w, sendResponse{MessageID: sent.MessageID})
	})
}

// postSendMedia handles POST /api/send-media, a multipart form with a
// "media" file plus phoneNumber and caption fields
func postSendMedia(ctrl session.Controller, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				fail(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			fail(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		upload := session.Upload{}
		file, header, err := r.FormFile("media")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			fail(w, http.StatusBadRequest, err.Error())
			return
		default:
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				fail(w, http.StatusBadRequest, "reading media file")
				return
			}
			upload = session.Upload{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			}
			if upload.ContentType == "" || upload.ContentType == "application/octet-stream" {
				upload.ContentType = http.DetectContentType(data)
			}
		}

		sent, err := ctrl.SendMedia(r.Context(), r.FormValue("phoneNumber"), r.FormValue("caption"), upload)
		if err != nil {
			failWith(w, err)
			return
		}
		ok(w, sendResponse{MessageID: sent.MessageID})
	})
}
