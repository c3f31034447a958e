package main

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/darkclainer/dictui/pkg/controller"
	"github.com/darkclainer/dictui/pkg/dictionary"
	"github.com/darkclainer/dictui/pkg/querier"
)

type ResponseStatus int

const (
	ResponseOK ResponseStatus = iota
	ResponseNotFound
	ResponseBadRequest
	ResponseError
)

type ResponseLookup struct {
	Word        string                           `json:"word,omitempty"`
	Definitions []dictionary.FlattenedDefinition `json:"definitions,omitempty"`
	Error       string                           `json:"error,omitempty"`
	Status      ResponseStatus                   `json:"status"`
}

type pageData struct {
	State controller.State
	// Refresh is seconds after which browser reloads the page, zero disables reload
	Refresh int
}

func newPageData(state controller.State) *pageData {
	data := pageData{State: state}
	switch {
	case state.Loading():
		data.Refresh = 1
	case state.Notification != nil:
		remaining := time.Until(state.Notification.Expires).Seconds()
		data.Refresh = int(math.Max(1, math.Ceil(remaining)))
	}
	return &data
}

func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.page.Execute(w, newPageData(s.c.State())); err != nil {
			s.logger.Error("page rendering failed", zap.Error(err))
		}
	}
}

func (s *Server) handleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form", http.StatusBadRequest)
			return
		}
		request := s.c.Search(r.PostFormValue("query"))
		timer := time.NewTimer(s.conf.SearchWait)
		defer timer.Stop()
		// page shows loading state and refreshes itself if lookup is slower than SearchWait
		select {
		case <-request.Done:
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleCloseNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.PostFormValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "malformed notification id", http.StatusBadRequest)
			return
		}
		if !s.c.Banner().Close(id) {
			s.logger.Debug("notification already dismissed", zap.Uint64("id", id))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, s.c.State(), http.StatusOK)
	}
}

func (s *Server) handleLookup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word := r.URL.Query().Get("q")
		if word == "" {
			s.respondJSON(w, &ResponseLookup{
				Status: ResponseBadRequest,
			}, http.StatusBadRequest)
			return
		}
		result, err := s.q.Lookup(r.Context(), word)
		response := ResponseLookup{Word: word}
		if err != nil {
			response.Error = err.Error()
			var lookupErr *querier.LookupError
			switch {
			case errors.As(err, &lookupErr) && lookupErr.StatusCode == http.StatusNotFound:
				response.Status = ResponseNotFound
			case errors.Is(err, querier.ErrEmptyWord):
				response.Status = ResponseBadRequest
			default:
				response.Status = ResponseError
				s.logger.Error("Querier lookup returned error",
					zap.Error(err),
					zap.String("word", word),
				)
			}
			s.respondJSON(w, &response, http.StatusOK)
			return
		}
		response.Definitions = dictionary.Flatten(result)
		s.respondJSON(w, &response, http.StatusOK)
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}
