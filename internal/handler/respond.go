package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ealtun16/Vespro-sub000/internal/repository"
	"github.com/ealtun16/Vespro-sub000/internal/service"
	"github.com/ealtun16/Vespro-sub000/internal/storage"
)

// writeError は {"error": code} の JSON を status で返す
func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// writeServiceError は service のエラーを HTTP ステータスに対応付ける。
// 既知の sentinel 以外はログに出して fallback のコードで返す
func writeServiceError(w http.ResponseWriter, err error, fallback string, attrs ...any) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", append([]any{"code", fallback, "error", err}, attrs...)...)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// pageParams は limit/offset クエリを読む。範囲外の値は既定値になる
func pageParams(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= maxLimit {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
