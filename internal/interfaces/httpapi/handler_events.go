package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/zhangzheng888/gridiron-auction/internal/usecase"
)

// sseKeepAliveInterval paces comment frames that keep idle draft-room
// connections alive through proxies.
const sseKeepAliveInterval = 15 * time.Second

// StreamDraftEvents serves the draft room's live feed over
// server-sent events. The first frame is a full snapshot; every
// committed transition after that arrives as a fresh snapshot, so a
// client that drops frames recovers on the next one.
func (h *Handler) StreamDraftEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamDraftEvents")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	draftID := r.PathValue("draftID")
	d, err := h.draftService.GetDraft(ctx, principal, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "subscribe draft events failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: response writer does not support streaming", usecase.ErrDependencyUnavailable))
		return
	}

	events, cancel := h.events.Subscribe(d.ID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if initial, err := sonic.Marshal(draftToDTO(ctx, d, h.resolveDraftNames(ctx, d))); err == nil {
		writeSSEFrame(w, flusher, "snapshot", initial)
	} else {
		h.logger.WarnContext(ctx, "encode initial draft snapshot", "draft_id", d.ID, "error", err)
	}

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, open := <-events:
			if !open {
				return
			}
			writeSSEFrame(w, flusher, "draft", payload)
		case <-keepAlive.C:
			writeSSEComment(w, flusher)
		}
	}
}

func writeSSEFrame(w http.ResponseWriter, flusher http.Flusher, event string, payload []byte) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if event != "" {
		_, _ = buf.WriteString("event: ")
		_, _ = buf.WriteString(event)
		_ = buf.WriteByte('\n')
	}
	_, _ = buf.WriteString("data: ")
	_, _ = buf.Write(payload)
	_, _ = buf.WriteString("\n\n")

	_, _ = w.Write(buf.B)
	flusher.Flush()
}

func writeSSEComment(w http.ResponseWriter, flusher http.Flusher) {
	_, _ = w.Write([]byte(": keep-alive\n\n"))
	flusher.Flush()
}
