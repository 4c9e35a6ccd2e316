package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
	timeclockService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timeclock"
)

const keepaliveInterval = 30 * time.Second

type TimeclockHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Filter(w http.ResponseWriter, r *http.Request)
	ResetFilter(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	SourceFile(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
}

type timeclockHandlerImpl struct {
	timeclockService timeclock.TimeclockService
	hub              *sse.Hub
	keepalive        time.Duration
}

func NewTimeclockHandler(timeclockService timeclock.TimeclockService, hub *sse.Hub) TimeclockHandler {
	return &timeclockHandlerImpl{
		timeclockService: timeclockService,
		hub:              hub,
		keepalive:        keepaliveInterval,
	}
}

// Upload implements TimeclockHandler
func (h *timeclockHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, timeclock.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(timeclock.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.HandleError(w, timeclock.ErrFileTooLarge)
			return
		}
		response.BadRequest(w, "Failed to parse multipart form", nil)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Punch file is required", map[string]string{"file": "punch file is required"})
			return
		}
		response.BadRequest(w, "Failed to read punch file", nil)
		return
	}
	defer file.Close()

	if header.Size > timeclock.MaxUploadSize {
		response.HandleError(w, timeclock.ErrFileTooLarge)
		return
	}

	req := timeclock.UploadRequest{
		Filename: header.Filename,
		Size:     header.Size,
		File:     file,
	}

	result, err := h.timeclockService.Upload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// ListRecords implements TimeclockHandler
func (h *timeclockHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	req := timeclock.ListRecordsRequest{
		Type: timeclock.RecordType(r.URL.Query().Get("type")),
	}

	result, err := h.timeclockService.ListRecords(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements TimeclockHandler
func (h *timeclockHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeclockService.Summary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Filter implements TimeclockHandler
func (h *timeclockHandlerImpl) Filter(w http.ResponseWriter, r *http.Request) {
	var req timeclock.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.timeclockService.Filter(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Filter applied", result)
}

// ResetFilter implements TimeclockHandler
func (h *timeclockHandlerImpl) ResetFilter(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeclockService.ResetFilter(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Filter cleared", result)
}

// Export implements TimeclockHandler
func (h *timeclockHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := timeclock.ExportRequest{
		Format: timeclock.ExportFormat(r.URL.Query().Get("format")),
	}

	result, err := h.timeclockService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, result.Filename, result.ContentType, result.Content)
}

// SourceFile implements TimeclockHandler
func (h *timeclockHandlerImpl) SourceFile(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeclockService.SourceFile(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, result.Filename, result.ContentType, result.Content)
}

// Events streams timeclock events to the client using SSE
func (h *timeclockHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(timeclockService.EventTopic)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("Failed to encode event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
