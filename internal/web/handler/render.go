package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/tetris-showcase/internal/model"
	"github.com/mcoot/tetris-showcase/internal/web/templates/layout"
	"github.com/mcoot/tetris-showcase/internal/web/templates/pages"
)

func render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = component.Render(r.Context(), w)
}

// renderError maps domain errors to a status and error page
func renderError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	title := "Something went wrong"
	message := "Please try again later."

	switch {
	case errors.Is(err, model.ErrRecordNotFound):
		status, title, message = http.StatusNotFound, "Record not found", "That game is not on the leaderboard."
	case errors.Is(err, model.ErrSessionNotFound):
		status, title, message = http.StatusNotFound, "Session not found", "That session has ended or never existed."
	default:
		logger.Error("web request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}

	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: title},
		Message:  message,
	}))
}

// RenderPanic shows the generic error page after a handler panic
func RenderPanic(w http.ResponseWriter, r *http.Request, _ error) {
	render(w, r, http.StatusInternalServerError, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: "Something went wrong"},
		Message:  "The page crashed while rendering. Please try again later.",
	}))
}
