package log

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-logfmt/logfmt"
)

// OriginKey is the [slog.Attr] key that sets a record's origin. It is only
// honored outside groups, whether attached with [slog.Logger.With] or passed
// to a log call; inside a group it is rendered like any other attribute.
const OriginKey = "origin"

// Handler is a [slog.Handler] that routes records through a [Dispatcher].
//
// The record origin comes from an attribute named [OriginKey], else from
// [Handler.WithOrigin], else from the host's application name. Remaining
// attributes are appended to the message in logfmt.
//
// Create instances with [Dispatcher.Handler].
type Handler struct {
	d      *Dispatcher
	origin string
	group  string
	attrs  []slog.Attr
}

// Handler returns a [slog.Handler] backed by d.
func (d *Dispatcher) Handler() *Handler {
	return &Handler{d: d, origin: d.appName}
}

// WithOrigin returns a copy of h that tags records with origin.
func (h *Handler) WithOrigin(origin string) *Handler {
	h2 := *h
	h2.origin = origin

	return &h2
}

// Enabled implements [slog.Handler].
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.d.Enabled(LevelFromSlog(level))
}

// Handle implements [slog.Handler].
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	origin := h.origin

	var keyvals []any

	collect := func(prefix string, a slog.Attr) {
		if a.Key == OriginKey && prefix == "" {
			origin = a.Value.Resolve().String()
			return
		}

		keyvals = appendAttr(keyvals, prefix, a)
	}

	for _, a := range h.attrs {
		collect("", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		collect(h.group, a)
		return true
	})

	msg := r.Message

	if len(keyvals) > 0 {
		b, err := logfmt.MarshalKeyvals(keyvals...)
		if err == nil && len(b) > 0 {
			msg += " " + string(b)
		}
	}

	return h.d.Dispatch(Record{
		Time:    r.Time.Local(),
		Origin:  origin,
		Level:   LevelFromSlog(r.Level),
		Message: msg,
	})
}

// WithAttrs implements [slog.Handler].
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)

	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		h2.attrs = append(h2.attrs, a)
	}

	return &h2
}

// WithGroup implements [slog.Handler].
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := *h
	if h.group == "" {
		h2.group = name
	} else {
		h2.group = h.group + "." + name
	}

	return &h2
}

// appendAttr flattens a into logfmt keyvals, expanding groups with dotted keys.
func appendAttr(keyvals []any, prefix string, a slog.Attr) []any {
	v := a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return keyvals
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			keyvals = appendAttr(keyvals, key, ga)
		}

		return keyvals
	}

	if key == "" {
		return keyvals
	}

	return append(keyvals, strings.ReplaceAll(key, " ", "_"), v.String())
}
