package storefront

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniCart/internal/cart"
	"MiniCart/pkg/kit"
)

const (
	cookieName   = "minicart_session"
	maxBodyBytes = 4 << 10
)

//go:embed web/index.html
var webFS embed.FS

type Server struct {
	Sessions *Sessions
	Tokens   *TokenMaker
	Log      *zap.Logger

	// SecureCookie marks the session cookie Secure; set it behind TLS.
	SecureCookie bool

	limiters []*kit.IPRateLimiter
}

type ctxKey string

const sessionKey ctxKey = "session"

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

type stateResponse struct {
	Phase        cart.Phase     `json:"phase"`
	Loading      bool           `json:"loading"`
	Error        bool           `json:"error"`
	Products     []cart.Product `json:"products"`
	Cart         []cart.Entry   `json:"cart"`
	TotalItems   int            `json:"total_items"`
	TotalPrice   string         `json:"total_price"`
	BadgeVisible bool           `json:"badge_visible"`
}

func newStateResponse(st cart.State) stateResponse {
	resp := stateResponse{
		Phase:        st.Phase(),
		Loading:      st.Loading,
		Error:        st.Error,
		Products:     st.Catalog,
		Cart:         st.Cart,
		TotalItems:   cart.TotalItems(st),
		TotalPrice:   cart.TotalPrice(st).StringFixed(2),
		BadgeVisible: cart.BadgeVisible(st),
	}
	if resp.Products == nil {
		resp.Products = []cart.Product{}
	}
	if resp.Cart == nil {
		resp.Cart = []cart.Entry{}
	}
	return resp
}

// page serves the single view. Loading the page is a fresh mount: any
// previous session of this browser is torn down and its cart discarded.
func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	if old, ok := s.sessionFromCookie(r); ok {
		s.Sessions.Teardown(old.ID)
	}

	if _, err := s.mount(w); err != nil {
		if errors.Is(err, ErrTooManySessions) {
			s.Log.Warn("session cap reached", zap.Int("sessions", s.Sessions.Len()))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "too many sessions", nil)
			return
		}
		s.Log.Error("mount session failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	body, err := webFS.ReadFile("web/index.html")
	if err != nil {
		s.Log.Error("read page failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// withSession attaches the caller's session and slides its cookie expiry.
// Only the page mounts sessions; API calls without one get 401.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessionFromCookie(r)
		if !ok {
			kit.WriteError(w, r, http.StatusUnauthorized, "no session", map[string]any{"hint": "reload the page"})
			return
		}

		if err := s.setCookie(w, sess.ID); err != nil {
			s.Log.Warn("refresh session cookie failed", zap.String("session_id", sess.ID), zap.Error(err))
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) sessionFromCookie(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil, false
	}
	id, err := s.Tokens.Parse(c.Value)
	if err != nil {
		return nil, false
	}
	return s.Sessions.Get(id)
}

func (s *Server) mount(w http.ResponseWriter) (*Session, error) {
	sess, err := s.Sessions.Mount()
	if err != nil {
		return nil, err
	}

	if err := s.setCookie(w, sess.ID); err != nil {
		s.Sessions.Teardown(sess.ID)
		return nil, err
	}
	return sess, nil
}

func (s *Server) setCookie(w http.ResponseWriter, sessionID string) error {
	tok, err := s.Tokens.New(sessionID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.Tokens.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	kit.WriteJSON(w, http.StatusOK, newStateResponse(sess.Store.State()))
}

type addReq struct {
	ProductID int64 `json:"product_id"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	req, err := decodeAddRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	st := sess.Store.State()
	if st.Phase() != cart.PhaseSuccess {
		kit.WriteError(w, r, http.StatusConflict, "catalog not loaded", map[string]any{"phase": st.Phase()})
		return
	}

	p, ok := st.Product(req.ProductID)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"product_id": req.ProductID})
		return
	}

	st = s.dispatch(sess, cart.Add{Product: p})
	kit.WriteJSON(w, http.StatusOK, newStateResponse(st))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", map[string]any{"id": chi.URLParam(r, "id")})
		return
	}

	st := s.dispatch(sess, cart.RemoveOne{ProductID: id})
	kit.WriteJSON(w, http.StatusOK, newStateResponse(st))
}

func (s *Server) dispatch(sess *Session, a cart.Action) cart.State {
	s.Sessions.metrics.cartActions.WithLabelValues(a.Kind()).Inc()
	return sess.Store.Dispatch(a)
}

func decodeAddRequest(w http.ResponseWriter, r *http.Request) (addReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req addReq
	if err := dec.Decode(&req); err != nil {
		return addReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return addReq{}, errors.New("extra data after json object")
	}
	if req.ProductID == 0 {
		return addReq{}, errors.New("product_id required")
	}

	return req, nil
}
