package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pdftrim/document"
	"pdftrim/store"
	"pdftrim/trim"
	"pdftrim/types"
)

// SessionHandler is the controller between the HTTP surface and the trim
// core: it owns the live sessions, flushes pending edits on navigation and
// export, and mirrors state into the database so an export can be retried
// after a restart.
type SessionHandler struct {
	logger   *slog.Logger
	db       store.DBStorer
	provider *document.Provider
	cfg      types.Config

	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

// liveSession serializes access to one review session. Fiber runs handlers
// concurrently and a flush must not race an export.
type liveSession struct {
	mu      sync.Mutex
	id      uuid.UUID
	handle  *document.Handle
	session *trim.Session
}

func NewSessionHandler(db store.DBStorer, provider *document.Provider, cfg types.Config) *SessionHandler {
	return &SessionHandler{
		logger:   slog.Default(),
		db:       db,
		provider: provider,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*liveSession),
	}
}

// HandleCreate opens a document and selects the working page range.
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	var params types.OpenParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	path := document.NormalizePath(params.Path)
	handle, err := h.provider.Open(path)
	if err != nil {
		return err
	}

	session := trim.NewSession()
	rng := trim.PageRange{Start: params.StartPage - 1, End: params.EndPage - 1}
	if err := session.LoadRange(rng, handle.PageCount); err != nil {
		return err
	}

	sess := &liveSession{id: uuid.New(), handle: handle, session: session}
	h.mu.Lock()
	h.sessions[sess.id] = sess
	h.mu.Unlock()

	if err := h.persistSession(sess); err != nil {
		return err
	}

	h.logger.Info("session created", "id", sess.id, "path", path, "pages", handle.PageCount)
	return c.JSON(h.sessionResponse(sess))
}

// HandleGet returns the full state of a session.
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	sess, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(h.sessionResponse(sess))
}

// HandleSetRange reselects the page range, discarding all prior trims.
func (h *SessionHandler) HandleSetRange(c *fiber.Ctx) error {
	var params types.RangeParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	sess, err := h.lookup(c)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	err = sess.session.LoadRange(trim.PageRange{Start: params.StartPage - 1, End: params.EndPage - 1}, sess.handle.PageCount)
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	if err := h.persistSession(sess); err != nil {
		return err
	}

	h.logger.Info("range reselected", "id", sess.id, "start", params.StartPage, "end", params.EndPage)
	return c.JSON(h.sessionResponse(sess))
}

// HandleViewPage navigates to a page: pending edits of the previously viewed
// page are flushed into the store, then the target page's trims are returned.
func (h *SessionHandler) HandleViewPage(c *fiber.Ctx) error {
	sess, err := h.lookup(c)
	if err != nil {
		return err
	}
	page, err := pageParam(c)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	prevPage, prevSpec, wasViewing := sess.session.Viewing()
	spec := sess.session.ViewPage(page - 1)
	sess.mu.Unlock()

	if err := h.persistFlush(sess.id, prevPage, prevSpec, wasViewing); err != nil {
		return err
	}

	return c.JSON(types.PageResponse{Page: page, Top: spec.Top, Bottom: spec.Bottom})
}

// HandleEditTrim updates the cut percentages of a page.
func (h *SessionHandler) HandleEditTrim(c *fiber.Ctx) error {
	var params types.TrimParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	sess, err := h.lookup(c)
	if err != nil {
		return err
	}
	page, err := pageParam(c)
	if err != nil {
		return err
	}

	spec := trim.Spec{Top: params.Top, Bottom: params.Bottom}
	sess.mu.Lock()
	sess.session.Edit(page-1, spec)
	sess.mu.Unlock()

	if err := h.db.SavePageTrim(context.Background(), sess.id, store.PageTrim{Page: page - 1, Top: spec.Top, Bottom: spec.Bottom}); err != nil {
		return err
	}

	return c.JSON(types.PageResponse{Page: page, Top: spec.Top, Bottom: spec.Bottom})
}

// HandlePreview downloads a one-page PDF of the requested page with its
// current crop applied. Optional top/bottom query values act as live edits of
// the viewed page, like dragging the cut controls before saving.
func (h *SessionHandler) HandlePreview(c *fiber.Ctx) error {
	sess, err := h.lookup(c)
	if err != nil {
		return err
	}
	page, err := pageParam(c)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	prevPage, prevSpec, wasViewing := sess.session.Viewing()
	spec := sess.session.ViewPage(page - 1)
	if c.Query("top") != "" || c.Query("bottom") != "" {
		spec = trim.Spec{
			Top:    c.QueryFloat("top", spec.Top),
			Bottom: c.QueryFloat("bottom", spec.Bottom),
		}
		sess.session.Edit(page-1, spec)
	}
	sess.mu.Unlock()

	if err := h.persistFlush(sess.id, prevPage, prevSpec, wasViewing); err != nil {
		return err
	}

	box, err := h.provider.MediaBox(sess.handle, page-1)
	if err != nil {
		return err
	}
	cropped, err := trim.ComputeCrop(box, spec)
	if err != nil {
		return err
	}

	out := filepath.Join(os.TempDir(), fmt.Sprintf("preview_%s_%d.pdf", sess.id, page))
	if err := h.provider.Preview(sess.handle, page-1, cropped, out); err != nil {
		return err
	}
	defer os.Remove(out)

	return c.Download(out, fmt.Sprintf("page_%d_preview.pdf", page))
}

// HandleExport flushes pending edits, applies every page's crop and writes
// the output document. Trim state is kept so a failed or repeated export
// needs no re-entry.
func (h *SessionHandler) HandleExport(c *fiber.Ctx) error {
	sess, err := h.lookup(c)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	plan, err := sess.session.ExportPlan(func(p int) (trim.CropBox, error) {
		return h.provider.MediaBox(sess.handle, p)
	})
	if err != nil {
		sess.mu.Unlock()
		return err
	}
	rng := sess.session.Range()
	flushed := make([]store.PageTrim, 0, rng.Len())
	for p := rng.Start; p <= rng.End; p++ {
		spec := sess.session.Get(p)
		flushed = append(flushed, store.PageTrim{Page: p, Top: spec.Top, Bottom: spec.Bottom})
	}

	out := filepath.Join(h.cfg.ExportDir, fmt.Sprintf("trimmed_%s.pdf", sess.id))
	err = h.provider.Assemble(sess.handle, rng, plan, out)
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	for _, t := range flushed {
		if err := h.db.SavePageTrim(context.Background(), sess.id, t); err != nil {
			return err
		}
	}
	record := store.ExportRecord{
		ID:         uuid.New(),
		SessionID:  sess.id,
		OutputPath: out,
		PageCount:  len(plan),
		CreatedAt:  time.Now(),
	}
	if err := h.db.SaveExport(context.Background(), record); err != nil {
		return err
	}

	h.logger.Info("export complete", "id", sess.id, "output", out, "pages", len(plan))
	return c.JSON(&types.ExportResponse{
		SessionID:  sess.id.String(),
		OutputPath: out,
		Pages:      len(plan),
		Timestamp:  time.Now(),
	})
}

// lookup finds a live session, falling back to the database so sessions
// survive restarts.
func (h *SessionHandler) lookup(c *fiber.Ctx) (*liveSession, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, ErrInvalidID()
	}

	h.mu.Lock()
	sess, ok := h.sessions[id]
	h.mu.Unlock()
	if ok {
		return sess, nil
	}

	restored, err := h.restore(context.Background(), id)
	if err != nil {
		return nil, ErrNotFound(id, "session")
	}

	h.mu.Lock()
	if existing, ok := h.sessions[id]; ok {
		restored = existing
	} else {
		h.sessions[id] = restored
	}
	h.mu.Unlock()
	return restored, nil
}

func (h *SessionHandler) restore(ctx context.Context, id uuid.UUID) (*liveSession, error) {
	rec, err := h.db.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	handle, err := h.provider.Open(rec.SourcePath)
	if err != nil {
		return nil, err
	}

	session := trim.NewSession()
	if err := session.LoadRange(trim.PageRange{Start: rec.StartPage, End: rec.EndPage}, handle.PageCount); err != nil {
		return nil, err
	}

	trims, err := h.db.GetPageTrims(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, t := range trims {
		session.Edit(t.Page, trim.Spec{Top: t.Top, Bottom: t.Bottom})
	}

	h.logger.Info("session restored", "id", id, "path", rec.SourcePath)
	return &liveSession{id: id, handle: handle, session: session}, nil
}

func (h *SessionHandler) persistSession(sess *liveSession) error {
	sess.mu.Lock()
	rng := sess.session.Range()
	sess.mu.Unlock()

	now := time.Now()
	record := store.SessionRecord{
		ID:         sess.id,
		SourcePath: sess.handle.Path,
		PageCount:  sess.handle.PageCount,
		StartPage:  rng.Start,
		EndPage:    rng.End,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.db.SaveSession(context.Background(), record); err != nil {
		return err
	}
	return h.db.ResetPageTrims(context.Background(), sess.id, rng.Start, rng.End)
}

func (h *SessionHandler) persistFlush(id uuid.UUID, page int, spec trim.Spec, wasViewing bool) error {
	if !wasViewing {
		return nil
	}
	return h.db.SavePageTrim(context.Background(), id, store.PageTrim{Page: page, Top: spec.Top, Bottom: spec.Bottom})
}

func (h *SessionHandler) sessionResponse(sess *liveSession) *types.SessionResponse {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	rng := sess.session.Range()
	trims := make([]types.PageTrimView, 0, rng.Len())
	for p := rng.Start; p <= rng.End; p++ {
		spec := sess.session.Get(p)
		trims = append(trims, types.PageTrimView{Page: p + 1, Top: spec.Top, Bottom: spec.Bottom})
	}

	return &types.SessionResponse{
		ID:        sess.id.String(),
		Path:      sess.handle.Path,
		PageCount: sess.handle.PageCount,
		StartPage: rng.Start + 1,
		EndPage:   rng.End + 1,
		Trims:     trims,
	}
}

func pageParam(c *fiber.Ctx) (int, error) {
	page, err := strconv.Atoi(c.Params("page"))
	if err != nil || page < 1 {
		return 0, ErrInvalidPage()
	}
	return page, nil
}
