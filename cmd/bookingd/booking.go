package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/config"
)

// ── Domain ───────────────────────────────────────────────────────────────────

// Booking is one confirmed room reservation.
type Booking struct {
	Ref     string    `json:"ref"`
	GuestID string    `json:"guest_id"`
	RoomID  string    `json:"room_id"`
	Nights  int       `json:"nights"`
	Created time.Time `json:"created"`
}

var ErrInvalidBooking = errors.New("bookingd: guest, room and at least one night are required")

// BookingStore persists bookings.
type BookingStore interface {
	Save(b Booking) error
	Find(ref string) (Booking, bool)
	All() []Booking
}

// MemoryBookingStore keeps bookings in memory, safe for concurrent use.
type MemoryBookingStore struct {
	mu    sync.RWMutex
	items map[string]Booking
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{items: make(map[string]Booking)}
}

func (s *MemoryBookingStore) Save(b Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[b.Ref] = b
	return nil
}

func (s *MemoryBookingStore) Find(ref string) (Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.items[ref]
	return b, ok
}

func (s *MemoryBookingStore) All() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Booking, 0, len(s.items))
	for _, b := range s.items {
		out = append(out, b)
	}
	return out
}

// Notifier tells a guest their booking is confirmed.
type Notifier interface {
	BookingConfirmed(b Booking) error
}

// EmailNotifier delivers confirmations through the configured mail relay.
// Delivery here is a structured log line; swap in a real SMTP client by
// re-binding the Notifier abstraction.
type EmailNotifier struct {
	host string
	from string
	log  *zap.Logger
}

func NewEmailNotifier(cfg *config.Config, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		host: cfg.Mail.Host + ":" + cfg.Mail.Port,
		from: cfg.Mail.From,
		log:  log,
	}
}

func (n *EmailNotifier) BookingConfirmed(b Booking) error {
	n.log.Info("booking confirmation sent",
		zap.String("ref", b.Ref),
		zap.String("guest", b.GuestID),
		zap.String("relay", n.host),
		zap.String("from", n.from),
	)
	return nil
}

// BookingService owns the booking workflow.
type BookingService struct {
	store    BookingStore
	notifier Notifier
	log      *zap.Logger
}

func NewBookingService(store BookingStore, notifier Notifier, log *zap.Logger) *BookingService {
	return &BookingService{store: store, notifier: notifier, log: log}
}

// Book reserves a room and sends the confirmation. Confirmation failures
// are logged, not fatal — the booking is already persisted.
func (s *BookingService) Book(guestID, roomID string, nights int) (Booking, error) {
	if guestID == "" || roomID == "" || nights < 1 {
		return Booking{}, ErrInvalidBooking
	}
	b := Booking{
		Ref:     uuid.NewString(),
		GuestID: guestID,
		RoomID:  roomID,
		Nights:  nights,
		Created: time.Now().UTC(),
	}
	if err := s.store.Save(b); err != nil {
		return Booking{}, err
	}
	if err := s.notifier.BookingConfirmed(b); err != nil {
		s.log.Warn("confirmation failed", zap.String("ref", b.Ref), zap.Error(err))
	}
	s.log.Info("booking created",
		zap.String("ref", b.Ref),
		zap.String("room", b.RoomID),
		zap.Int("nights", b.Nights),
	)
	return b, nil
}

func (s *BookingService) Get(ref string) (Booking, bool) {
	return s.store.Find(ref)
}

func (s *BookingService) List() []Booking {
	return s.store.All()
}

// ── HTTP handlers ────────────────────────────────────────────────────────────

type bookingRequest struct {
	GuestID string `json:"guest_id"`
	RoomID  string `json:"room_id"`
	Nights  int    `json:"nights"`
}

func mountRoutes(r *chi.Mux, svc *BookingService) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", handleCreateBooking(svc))
		r.Get("/", handleListBookings(svc))
		r.Get("/{ref}", handleShowBooking(svc))
	})
}

func handleCreateBooking(svc *BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		b, err := svc.Book(req.GuestID, req.RoomID, req.Nights)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func handleListBookings(svc *BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.List())
	}
}

func handleShowBooking(svc *BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "ref")
		b, ok := svc.Get(ref)
		if !ok {
			writeError(w, http.StatusNotFound, "no booking with ref "+ref)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
