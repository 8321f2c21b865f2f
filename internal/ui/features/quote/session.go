package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/lmstudios/lmsite/internal/wizard"
)

// Session keys.
const (
	wizardKey   = "quote.wizard"
	problemsKey = "quote.problems"
	noticeKey   = "quote.notice"
)

// visit is one request's view of the session, plus the messages the
// request wants shown on the next render.
type visit struct {
	session  *sessions.Session
	wizard   *wizard.Wizard
	problems map[string]string
	notice   string
}

// load restores the wizard from the session. A missing or undecodable
// cookie yields a fresh wizard.
func (h *Handlers) load(r *http.Request) *visit {
	session, err := h.deps.Sessions.Get(r, sessionName)
	if err != nil {
		h.deps.Log().DebugContext(r.Context(), "discarding unreadable session", slog.String("error", err.Error()))
	}

	raw, _ := session.Values[wizardKey].(string)
	wiz, err := wizard.Unmarshal(raw, h.deps.Wizard)
	if err != nil {
		h.deps.Log().DebugContext(r.Context(), "discarding unreadable wizard", slog.String("error", err.Error()))
	}

	return &visit{session: session, wizard: wiz}
}

// encode puts the wizard into the session values.
func (v *visit) encode() error {
	data, err := v.wizard.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode wizard: %w", err)
	}
	v.session.Values[wizardKey] = data
	return nil
}

// save writes the wizard back to the session cookie. Cookie stores fail
// here when the encoded session is too large for a cookie.
func (v *visit) save(r *http.Request, w http.ResponseWriter) error {
	if err := v.encode(); err != nil {
		return err
	}
	return v.session.Save(r, w)
}

// fits encodes the session without sending it, reporting whether a later
// save would succeed.
func (v *visit) fits(r *http.Request) error {
	if err := v.encode(); err != nil {
		return err
	}
	return v.session.Save(r, discardResponse{header: make(http.Header)})
}

// discardResponse swallows whatever a session store writes.
type discardResponse struct {
	header http.Header
}

func (d discardResponse) Header() http.Header { return d.header }

func (discardResponse) Write(b []byte) (int, error) { return len(b), nil }

func (discardResponse) WriteHeader(int) {}

// fail records err for the visitor. Incomplete steps become field
// problems; transitions that are simply not allowed are ignored.
func (v *visit) fail(err error) {
	var incomplete *wizard.IncompleteStepError
	switch {
	case err == nil:
	case errors.As(err, &incomplete):
		v.problems = incomplete.Fields
	case errors.Is(err, wizard.ErrNotFinalStep), errors.Is(err, wizard.ErrAlreadySubmitted):
	default:
		v.notice = err.Error()
	}
}

// flash queues the pending problems and notice for the next render.
func (v *visit) flash() {
	if len(v.problems) > 0 {
		if b, err := json.Marshal(v.problems); err == nil {
			v.session.AddFlash(string(b), problemsKey)
		}
	}
	if v.notice != "" {
		v.session.AddFlash(v.notice, noticeKey)
	}
}

// takeFlashes consumes any pending problems and notice.
func (v *visit) takeFlashes() (map[string]string, string) {
	var problems map[string]string
	for _, f := range v.session.Flashes(problemsKey) {
		if s, ok := f.(string); ok {
			_ = json.Unmarshal([]byte(s), &problems)
		}
	}

	var notice string
	for _, f := range v.session.Flashes(noticeKey) {
		if s, ok := f.(string); ok {
			notice = s
		}
	}
	return problems, notice
}
