package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/service"
)

// ImportHandler は Excel タンクフォーム取り込みの HTTP ハンドラ
type ImportHandler struct {
	svc            service.ImportService
	maxUploadBytes int64
}

// NewImportHandler は ImportHandler を生成する。maxUploadBytes はリクエスト body 全体の上限
func NewImportHandler(svc service.ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// Import は POST /api/tank-forms/import?layout=fixed|generic|auto。
// ファイルは multipart の "files" パート (単体なら "file") で受け取る
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	layout := r.URL.Query().Get("layout")
	switch layout {
	case "":
		layout = model.LayoutAuto
	case model.LayoutAuto, model.LayoutFixed, model.LayoutGeneric:
	default:
		writeError(w, http.StatusBadRequest, "invalid_layout")
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_multipart")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	headers = append(headers, r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "files_required")
		return
	}

	files := make([]service.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable_file")
			return
		}
		files = append(files, service.UploadedFile{Name: fh.Filename, Data: data})
	}

	annotate(r, "layout", layout, "files", len(files))
	result := h.svc.ImportFiles(r.Context(), files, service.ImportOptions{Layout: layout})
	annotate(r, "succeeded", result.Succeeded, "failed", result.Failed)
	if result.Succeeded == 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	_ = json.NewEncoder(w).Encode(result)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
