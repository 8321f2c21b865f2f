package quote

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/ui/features"
	"github.com/lmstudios/lmsite/internal/ui/features/common"
	"github.com/lmstudios/lmsite/internal/ui/notifier"
	"github.com/lmstudios/lmsite/internal/ui/views"
	"github.com/lmstudios/lmsite/internal/wizard"
)

const (
	sessionName = features.SessionName
	quotePath   = "/quote"

	noticeSaveFailed = "We could not save your request. Please try again in a moment."
	noticeTooLong    = "Your answers are too long to keep. Please shorten them and try again."
)

// Handlers provides HTTP handlers for the quote wizard.
type Handlers struct {
	deps features.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// QuotePage renders the current step, or the confirmation while a
// submitted request waits for its reset.
func (h *Handlers) QuotePage(w http.ResponseWriter, r *http.Request) {
	now := h.deps.Clock()
	v := h.load(r)
	v.wizard.Refresh(now)

	if pkg := r.URL.Query().Get("package"); pkg != "" && !v.wizard.Submitted() {
		if h.isPackage(pkg) {
			_ = v.wizard.Update(map[string]string{wizard.FieldPackage: pkg})
		}
	}

	problems, notice := v.takeFlashes()
	if err := v.save(r, w); err != nil {
		h.deps.Log().ErrorContext(r.Context(), "failed to save session", slog.String("error", err.Error()))
	}

	h.render(w, r, v.wizard, problems, notice, http.StatusOK)
}

// render writes the wizard page for wiz.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, wiz *wizard.Wizard, problems map[string]string, notice string, status int) {
	body := h.body(wiz, problems, notice)
	page := common.NewPage(h.deps, r, views.PageMeta{
		Title:       "Request a quote",
		Description: "Tell us about your project and get a fixed-price quote within one working day.",
	}, body)
	if body.Submitted {
		page.Refresh = body.ResetSeconds
		page.Path = quotePath
	}

	common.RenderStatus(w, r, status, views.Render(views.PageQuote, page))
}

// Next saves the posted fields and advances one step.
func (h *Handlers) Next(w http.ResponseWriter, r *http.Request) {
	h.handleStep(w, r, func(v *visit) {
		v.fail(v.wizard.Next())
	})
}

// Back saves the posted fields and returns one step.
func (h *Handlers) Back(w http.ResponseWriter, r *http.Request) {
	h.handleStep(w, r, func(v *visit) {
		_ = v.wizard.Back()
	})
}

// Submit finalises the request, stores it and notifies the studio.
// Nothing is stored unless the submitted wizard fits in the session, so
// the confirmation always reaches the visitor and a retry cannot store
// the request twice. If the quote cannot be stored the wizard is left as
// it was before the submit so the visitor can retry.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	h.handleStep(w, r, func(v *visit) {
		ctx := r.Context()
		before := *v.wizard

		draft, err := v.wizard.Submit(h.deps.Clock())
		if err != nil {
			v.fail(err)
			return
		}

		if err := v.fits(r); err != nil {
			h.deps.Log().WarnContext(ctx, "submitted quote does not fit in the session", slog.String("error", err.Error()))
			*v.wizard = before
			v.notice = noticeTooLong
			return
		}

		q := state.QuoteFromDraft(draft, state.SourceWeb)
		if err := h.deps.Store.CreateQuote(ctx, q); err != nil {
			h.deps.Log().ErrorContext(ctx, "failed to store quote", slog.String("error", err.Error()))
			*v.wizard = before
			v.notice = noticeSaveFailed
			return
		}

		h.deps.Log().InfoContext(ctx, "quote request stored",
			slog.String("id", q.ID),
			slog.String("project_type", q.ProjectType))

		if h.deps.Notify != nil {
			if err := h.deps.Notify.Notify(ctx, q); err != nil {
				h.deps.Log().ErrorContext(ctx, "failed to send quote notification",
					slog.String("id", q.ID),
					slog.String("error", err.Error()))
			}
		}
		if h.deps.Notifier != nil {
			h.deps.Notifier.Publish(notifier.TopicQuotes)
		}
	})
}

// handleStep applies the posted fields, runs action and redirects back to
// the wizard. Posts from a stale form (a step other than the current one)
// are ignored so a double submit cannot skip ahead. When the session
// cannot hold the result the page is rendered directly instead, keeping
// what the visitor typed on screen.
func (h *Handlers) handleStep(w http.ResponseWriter, r *http.Request, action func(*visit)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	v := h.load(r)
	v.wizard.Refresh(h.deps.Clock())

	if r.PostForm.Get("step") == strconv.Itoa(int(v.wizard.Step)) {
		if err := v.wizard.Update(postedFields(r)); err == nil {
			action(v)
		}
	}

	v.flash()
	if err := v.save(r, w); err != nil {
		h.deps.Log().WarnContext(r.Context(), "failed to save session", slog.String("error", err.Error()))
		notice := v.notice
		if notice == "" {
			notice = noticeTooLong
		}
		h.render(w, r, v.wizard, v.problems, notice, http.StatusUnprocessableEntity)
		return
	}
	http.Redirect(w, r, quotePath, http.StatusSeeOther)
}

func (h *Handlers) isPackage(name string) bool {
	for _, p := range h.deps.Content.Get().Packages {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (h *Handlers) body(wiz *wizard.Wizard, problems map[string]string, notice string) views.QuoteBody {
	c := h.deps.Content.Get()

	steps := make([]views.StepInfo, len(wizard.Steps))
	for i, s := range wizard.Steps {
		steps[i] = views.StepInfo{
			Number:  int(s),
			Title:   s.Title(),
			Current: s == wiz.Step && !wiz.Submitted(),
			Done:    s < wiz.Step || wiz.Submitted(),
		}
	}

	body := views.QuoteBody{
		Step:       wiz.Step,
		StepNumber: int(wiz.Step),
		Steps:      steps,
		Draft:      wiz.Draft,
		Problems:   problems,
		Notice:     notice,
		Options:    c.Quote,
		Packages:   c.Packages,
		Submitted:  wiz.Submitted(),
		First:      wiz.Step == wizard.FirstStep,
		Last:       wiz.Step == wizard.LastStep,
	}
	if body.Submitted {
		remaining := wiz.ResetAt().Sub(h.deps.Clock()).Seconds()
		body.ResetSeconds = max(1, int(math.Ceil(remaining)))
	}
	return body
}

// postedFields collects the draft fields present in the form.
func postedFields(r *http.Request) map[string]string {
	fields := make(map[string]string)
	for _, name := range wizard.Fields {
		if values, ok := r.PostForm[name]; ok && len(values) > 0 {
			fields[name] = values[0]
		}
	}
	return fields
}
