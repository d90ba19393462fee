package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/aescanero/scheme-screener/internal/eligibility"
	"github.com/aescanero/scheme-screener/internal/i18n"
	"github.com/aescanero/scheme-screener/internal/scheme"
	"github.com/aescanero/scheme-screener/internal/session"
)

const (
	msgCatalogNotFound = "Schemes data file not found."
	msgDataFormat      = "Invalid input or data format error: "
	msgUnexpected      = "An unexpected server error occurred."
	msgFinalize        = "An unexpected server error occurred during finalization."
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	lang := s.translations.Resolve(r.URL.Query().Get("lang"))

	languages := make([]map[string]interface{}, 0)
	for _, l := range s.translations.Languages() {
		languages = append(languages, map[string]interface{}{
			"code":     l.Code,
			"name":     l.Name,
			"selected": l.Code == lang,
		})
	}

	s.render(w, http.StatusOK, "index", map[string]interface{}{
		"lang":      lang,
		"t":         s.translations.Lookup(lang),
		"languages": languages,
	})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	lang := s.translations.Resolve(r.URL.Query().Get("lang"))
	s.render(w, http.StatusOK, "form", s.formView(lang, eligibility.Form{}, ""))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, s.translations.Resolve(""), http.StatusBadRequest, msgDataFormat+err.Error())
		return
	}

	lang := s.translations.Resolve(r.PostForm.Get("language"))
	form := make(eligibility.Form, len(eligibility.FormFields))
	for _, field := range eligibility.FormFields {
		form[field] = r.PostForm.Get(field)
	}

	sessionID := s.sessionID(r)
	if sessionID == "" {
		sessionID = session.NewID()
	}

	matched, err := s.screener.Screen(r.Context(), sessionID, lang, form)
	if err != nil {
		var verr *eligibility.ValidationError
		var malformed *scheme.MalformedError
		switch {
		case errors.As(err, &verr):
			s.render(w, http.StatusOK, "form", s.formView(lang, form, verr.Message))
		case errors.Is(err, scheme.ErrCatalogNotFound):
			s.logger.Error("scheme catalog missing", zap.Error(err))
			s.renderError(w, lang, http.StatusNotFound, msgCatalogNotFound)
		case errors.As(err, &malformed):
			s.logger.Error("scheme catalog malformed", zap.Error(err))
			s.renderError(w, lang, http.StatusBadRequest, msgDataFormat+malformed.Err.Error())
		default:
			s.logger.Error("screening failed", zap.Error(err))
			s.renderError(w, lang, http.StatusInternalServerError, msgUnexpected)
		}
		return
	}

	s.setSessionCookie(w, sessionID)
	s.render(w, http.StatusOK, "results", s.resultsView(lang, matched, false))
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)
	if sessionID == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.renderError(w, s.translations.Resolve(""), http.StatusBadRequest, msgDataFormat+err.Error())
		return
	}

	answers := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			answers[key] = values[0]
		}
	}

	final, err := s.screener.Finalize(r.Context(), sessionID, answers)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.logger.Error("finalize failed", zap.String("session_id", sessionID), zap.Error(err))
		s.renderError(w, s.translations.Resolve(""), http.StatusInternalServerError, msgFinalize)
		return
	}

	lang := s.translations.Resolve(final.Language)
	s.render(w, http.StatusOK, "results", s.resultsView(lang, final.Eligible, true))
}

// sessionID returns the session id from the request cookie, or "" when absent or invalid
func (s *Server) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(s.opts.CookieName)
	if err != nil || !session.ValidID(cookie.Value) {
		return ""
	}
	return cookie.Value
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) formView(lang string, form eligibility.Form, message string) map[string]interface{} {
	t := s.translations.Lookup(lang)
	return map[string]interface{}{
		"lang":      lang,
		"t":         t,
		"error":     message,
		"values":    map[string]string(form),
		"genders":   options(t, form[eligibility.FieldGender], "gender_", "male", "female", "other"),
		"locations": options(t, form[eligibility.FieldLocation], "location_", "rural", "urban"),
		"quota":     options(t, form[eligibility.FieldHKQuota], "", "yes", "no"),
	}
}

// options builds select choices labelled by the dictionary keys prefix+value
func options(t i18n.Dictionary, current, prefix string, values ...string) []map[string]interface{} {
	opts := make([]map[string]interface{}, len(values))
	for i, v := range values {
		opts[i] = map[string]interface{}{
			"value":    v,
			"label":    t[prefix+v],
			"selected": strings.EqualFold(current, v),
		}
	}
	return opts
}

func (s *Server) resultsView(lang string, schemes []scheme.Scheme, final bool) map[string]interface{} {
	t := s.translations.Lookup(lang)

	views := make([]map[string]interface{}, len(schemes))
	for i, sc := range schemes {
		view := map[string]interface{}{
			"id":          sc.ID.String(),
			"name":        sc.Name,
			"description": sc.Description,
			"benefits":    sc.Benefits,
			"department":  sc.Department,
			"documents":   sc.Documents,
			"link":        displayLink(sc.Link),
			"t":           t,
		}
		if !final && sc.Step2 != nil {
			view["question"] = sc.Step2.Question
			view["choices"] = choices(t, sc.ID.String(), sc.Step2.Choices())
		}
		views[i] = view
	}

	return map[string]interface{}{
		"lang":       lang,
		"t":          t,
		"schemes":    views,
		"show_final": final,
		"ask":        !final,
	}
}

// choices builds the radio buttons for a step-2 question; the input name is the scheme id
func choices(t i18n.Dictionary, name string, values []string) []map[string]interface{} {
	out := make([]map[string]interface{}, len(values))
	for i, v := range values {
		label := v
		if lower := strings.ToLower(v); lower == "yes" || lower == "no" {
			label = t[lower]
		}
		out[i] = map[string]interface{}{
			"name":  name,
			"value": v,
			"label": label,
		}
	}
	return out
}

// displayLink returns an http(s) href for a catalog link, or "" when the link cannot be shown
func displayLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return ""
		}
		return raw
	case "":
		if strings.HasPrefix(raw, "/") {
			return ""
		}
		withScheme, err := url.Parse("https://" + raw)
		if err != nil || withScheme.Host == "" {
			return ""
		}
		return withScheme.String()
	default:
		return ""
	}
}

func (s *Server) renderError(w http.ResponseWriter, lang string, status int, message string) {
	s.render(w, status, "error", map[string]interface{}{
		"lang":    lang,
		"t":       s.translations.Lookup(lang),
		"message": message,
	})
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data map[string]interface{}) {
	body, err := s.pages.RenderPage(page, data)
	if err != nil {
		s.logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, msgUnexpected, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		s.logger.Debug("failed to write response", zap.Error(err))
	}
}
