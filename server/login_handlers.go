package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/trinity-login/internal/errors"
	"github.com/jrsteele09/trinity-login/login"
	"github.com/jrsteele09/trinity-login/oauthmodel"
	"github.com/rs/zerolog"
)

const maxLoginBodyBytes = 64 << 10

// LoginHandler exchanges the Discord authorization code for the public user
// record (GET /api/login?code=... or POST /api/login).
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			w.Header().Set("Allow", "GET, POST, OPTIONS")
			writeJSONError(w, "method_not_allowed", errors.ErrMethodNotAllowed.Error(), http.StatusMethodNotAllowed)
			return
		}

		code, err := codeFromRequest(r)
		if err != nil {
			// An unreadable body is treated as a missing code.
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("could not read login body")
		}

		user, err := s.login.Exchange(r.Context(), code)
		if err != nil {
			le := login.AsError(err)
			writeJSON(w, le.Status, le.Body())
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// AuthorizeRedirectHandler sends the browser to the Discord consent page.
// The caller's state is passed through; one is generated when absent.
func (s *Server) AuthorizeRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.URL.Query().Get(oauthmodel.ParamState)
		if state == "" {
			state = uuid.NewString()
		}

		authorizeURL, err := s.login.AuthorizeURL(state)
		if err != nil {
			le := login.AsError(err)
			writeJSON(w, le.Status, le.Body())
			return
		}
		http.Redirect(w, r, authorizeURL, http.StatusFound)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"app":        s.config.AppName,
			"configured": len(s.config.Discord.MissingKeys()) == 0,
		})
	}
}

// codeFromRequest reads the authorization code from the query string, or
// for POST from a JSON or form body.
func codeFromRequest(r *http.Request) (string, error) {
	if code := r.URL.Query().Get(oauthmodel.ParamCode); code != "" {
		return code, nil
	}
	if r.Method != http.MethodPost || r.Body == nil {
		return "", nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxLoginBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
		var body struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
			return "", errors.Wrapf(errors.ErrInvalidRequestBody, "decode json: %v", err)
		}
		return body.Code, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", errors.Wrapf(errors.ErrInvalidRequestBody, "parse form: %v", err)
	}
	return r.PostForm.Get(oauthmodel.ParamCode), nil
}
